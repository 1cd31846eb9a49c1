package loam

// QuestionsMetadata is the metadata of the questions document.
type QuestionsMetadata struct {
	Questions []QuestionEntry `json:"questions" mapstructure:"questions"`
}

type QuestionEntry struct {
	ID    int    `json:"id" mapstructure:"id"`
	Text  string `json:"text" mapstructure:"text"`
	Skill string `json:"skill" mapstructure:"skill"`
}

// DomainsMetadata is the metadata of the domain ranking document.
type DomainsMetadata struct {
	Domains []DomainEntry `json:"domains" mapstructure:"domains"`
}

type DomainEntry struct {
	Domain string  `json:"domain" mapstructure:"domain"`
	Score  float64 `json:"score" mapstructure:"score"`
}

// TreeMetadata is the metadata of a domain tree document.
type TreeMetadata struct {
	Nodes     []NodeEntry         `json:"nodes" mapstructure:"nodes"`
	Endpoints map[string][]string `json:"endpoints" mapstructure:"endpoints"`
}

type NodeEntry struct {
	ID       string `json:"id" mapstructure:"id"`
	Question string `json:"question" mapstructure:"question"`
	Yes      string `json:"yes" mapstructure:"yes"`
	No       string `json:"no" mapstructure:"no"`
}
