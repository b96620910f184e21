package prompts

type PromptName string

const (
	PromptKnowledgeDomain PromptName = "knowledge_domain"
	PromptContextVector   PromptName = "context_vector"
	PromptEAVModel        PromptName = "eav_model"
	PromptTopicalMap      PromptName = "topical_map"
)
