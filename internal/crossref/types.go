package crossref

// Work is the plain transfer record a DOI lookup parses into. It carries
// no links into any store; the ingest layer translates it into graph
// mutations.
type Work struct {
	DOI     string
	Title   string
	Journal string
	ISSN    string
	Volume  string
	Issue   string
	Pages   string
	Year    string
	Month   string

	Authors    []WorkAuthor
	References []WorkReference
}

// WorkAuthor is one author of a work.
type WorkAuthor struct {
	Given  string
	Family string
	ORCID  string
}

// WorkReference is one entry of a work's reference list. Every field is
// optional; entries are used to import cited works.
type WorkReference struct {
	DOI     string
	Title   string
	Author  string
	Journal string
	Year    string
}

// envelope is the CrossRef REST response wrapper. Anything but
// status "ok" with message-type "work" is a malformed response.
type envelope struct {
	Status      string      `json:"status"`
	MessageType string      `json:"message-type"`
	Message     workMessage `json:"message"`
}

type workMessage struct {
	DOI            string   `json:"DOI"`
	Title          []string `json:"title"`
	ContainerTitle []string `json:"container-title"`
	ISSN           []string `json:"ISSN"`
	Volume         string   `json:"volume"`
	Issue          string   `json:"issue"`
	Page           string   `json:"page"`
	Issued         struct {
		DateParts [][]int `json:"date-parts"`
	} `json:"issued"`
	Author    []workAuthor    `json:"author"`
	Reference []workReference `json:"reference"`
}

type workAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
	ORCID  string `json:"ORCID"`
}

type workReference struct {
	DOI          string `json:"DOI"`
	ArticleTitle string `json:"article-title"`
	Author       string `json:"author"`
	JournalTitle string `json:"journal-title"`
	Year         string `json:"year"`
}
