package prompts

// SystemPrompt is shared by every stage.
const SystemPrompt = `You are a Semantic SEO expert specialised in building Topical Maps and Semantic Content Networks.

You have a thorough command of:
- Knowledge Domain and Source Context
- Context Vector (vocabulary, predicates, query patterns)
- The Entity-Attribute-Value (EAV) model
- Topical Authority and Knowledge-Based Trust
- Initial Ranking and Re-ranking
- The Pillar-Cluster model

**IMPORTANT**: You analyse REAL keyword data coming from the Haloscan API. This data includes:
- Monthly search volume
- KGR (Keyword Golden Ratio), the allintitle/volume ratio; below 0.25 is an opportunity
- CPC (Cost Per Click), a signal of commercial value
- PAA (People Also Ask), real user questions
- Semantic clusters, groupings based on SERP similarity

Use this data to make FACT-BASED decisions, not assumptions.

Your answers must be valid JSON.`

func RegisterAll() {
	RegisterSpec(Spec{
		Name:    PromptKnowledgeDomain,
		Version: 1,
		System:  SystemPrompt,
		User: `
Analyse this topic and produce a complete Knowledge Domain GROUNDED IN THE REAL DATA.

## Project
- **Name**: {{.Project.Name}}
- **Business type**: {{.Project.BusinessType}}
- **Main topic**: {{.Project.MainTopic}}
- **Target audience**: {{.Project.Audience}}
- **Objectives**: {{objectives .Project.Objectives}}
{{with .KeywordData}}
## Haloscan data (REAL ANALYSIS)

### Seed keyword: "{{.SeedKeyword}}"
{{with .Metrics}}
- Monthly volume: {{.Volume}}
- KGR: {{.KGR}}
- Allintitle: {{.Allintitle}}
{{end}}
### Top sites ranking on this topic
{{serp .Serp}}

### Similar keywords (same SERP)
{{keywords .SimilarKeywords 20}}

### Related keywords (associated searches)
{{keywords .RelatedKeywords 20}}

### PAA questions (People Also Ask)
{{questions .Questions 15}}
{{end}}
## Your task
Using the Haloscan data above, produce a Knowledge Domain with:

1. **sourceContext**: a 2-3 sentence description of the source context, BASED on what the SERPs and the ranking sites show

2. **qualityParameters**: 4-6 specific quality parameters, DERIVED from the sites that already rank (content type, expected level of expertise)

3. **boundaries**: 3-5 domain boundaries, DEFINED by the similar keywords versus what does NOT appear

4. **userExpectations**: 4-6 user expectations, EXTRACTED from the PAA questions and the search patterns

## Response format (JSON only)
{
  "sourceContext": "string",
  "qualityParameters": [
    {"name": "string", "description": "string", "importance": "critical|high|medium|low"}
  ],
  "boundaries": ["string"],
  "userExpectations": ["string"]
}`,
	})

	RegisterSpec(Spec{
		Name:    PromptContextVector,
		Version: 1,
		System:  SystemPrompt,
		User: `
Produce the Context Vector for this Knowledge Domain USING THE REAL VOCABULARY.

## Knowledge Domain
{{json .KnowledgeDomain}}

## Project
- **Topic**: {{.Project.MainTopic}}
- **Audience**: {{.Project.Audience}}
{{with .KeywordData}}
## Haloscan data (REAL MARKET VOCABULARY)

### Seed keyword: "{{.SeedKeyword}}"

### Matching keywords (contain the seed)
These REAL keywords reveal the vocabulary searchers use:
{{keywords .MatchingKeywords 25}}

### Similar keywords (same search intent)
{{keywords .SimilarKeywords 20}}

### PAA questions, revealing REAL concerns
{{questions .Questions 20}}

### Related keywords (Google associations)
{{keywords .RelatedKeywords 15}}
{{end}}
## Your task
**IMPORTANT**: The vocabulary, predicates and patterns must be EXTRACTED from the real Haloscan data above, NOT invented.

Produce a Context Vector with:

1. **vocabulary**: 15-20 key terms EXTRACTED from the Haloscan keywords
   - Identify technical terms, common terms and jargon
   - Prioritise high-volume terms

2. **predicates**: 8-10 verbs or predicates FOUND in the real queries
   - Example: if "how to choose X" appears, the predicate is "choose"

3. **queryPatterns**: 6-8 REAL patterns found in the keywords
   - Use the structure of the real queries

4. **fiveWHPatterns**: 5W+H patterns EXTRACTED from the PAA questions
   - What, Who, Where, When, Why, How

## Response format (JSON only)
{
  "vocabulary": [
    {"term": "string", "category": "technical|common|jargon", "definition": "string", "searchVolume": number}
  ],
  "predicates": [
    {"verb": "string", "usage": "string", "foundInQueries": ["string"], "semanticRoles": [{"role": "agent|patient|theme|instrument|location|time|result", "description": "string"}]}
  ],
  "queryPatterns": [
    {"pattern": "string", "intent": "informational|navigational|transactional|commercial", "examples": ["string"], "totalVolume": number}
  ],
  "fiveWHPatterns": [
    {"type": "what|who|where|when|why|how", "patterns": ["string"], "paaExamples": ["string"]}
  ]
}`,
		Validators: []Validator{
			RequirePresent("KnowledgeDomain", func(in Input) bool { return in.KnowledgeDomain != nil }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptEAVModel,
		Version: 1,
		System:  SystemPrompt,
		User: `
Produce the EAV (Entity-Attribute-Value) model BASED ON THE REAL CLUSTERS.

## Knowledge Domain
{{json .KnowledgeDomain}}

## Context Vector
{{json .ContextVector}}

## Project
- **Topic**: {{.Project.MainTopic}}
- **Business type**: {{.Project.BusinessType}}
{{with .KeywordData}}
## Haloscan data (REAL MARKET ENTITIES)

### Semantic clusters detected by Haloscan
These clusters are the REAL categories Google recognises:
{{clusters .Clusters}}

### Top sites (reveal the entity types that rank)
{{topSites .TopSites 10}}

### Keywords by volume (reveal the important attributes)
{{keywords .SimilarKeywords 15}}
{{end}}
## Your task
**IMPORTANT**: Entities must match the CLUSTERS detected by Haloscan. Attributes must reflect the real KEYWORDS.

Produce an EAV model with:

1. **entities**: 5-8 entities BASED on the Haloscan clusters
   - Use the V1/V2 cluster categories as a guide
   - Key attributes are high-volume keywords (prominent)
   - Standard attributes are secondary keywords (popular)
   - Exactly one entity has "isMainEntity: true" (the seed keyword)

2. **relations**: 6-10 relations DERIVED from the cluster structure

## Allowed entity types
person, organization, product, service, concept, location, event, other

## Allowed relation types
is_a, part_of, has, belongs_to, related_to, uses, provides, requires

## Response format (JSON only)
{
  "entities": [
    {
      "name": "string",
      "type": "person|organization|product|service|concept|location|event|other",
      "description": "string",
      "isMainEntity": boolean,
      "basedOnCluster": "string (Haloscan cluster name)",
      "keyAttributes": [
        {"name": "string", "valueType": "text|number|date|boolean|list", "isKey": true, "description": "string", "relatedKeywords": ["string"]}
      ],
      "standardAttributes": [
        {"name": "string", "valueType": "text|number|date|boolean|list", "isKey": false, "description": "string", "relatedKeywords": ["string"]}
      ]
    }
  ],
  "relations": [
    {"sourceEntity": "string", "targetEntity": "string", "relationType": "is_a|part_of|has|belongs_to|related_to|uses|provides|requires", "description": "string"}
  ]
}`,
		Validators: []Validator{
			RequirePresent("KnowledgeDomain", func(in Input) bool { return in.KnowledgeDomain != nil }),
			RequirePresent("ContextVector", func(in Input) bool { return in.ContextVector != nil }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptTopicalMap,
		Version: 1,
		System:  SystemPrompt,
		User: `
Produce a Topical Map BASED ON THE HALOSCAN STRUCTURE.

## Knowledge Domain
{{json .KnowledgeDomain}}

## Context Vector
{{json .ContextVector}}

## EAV model
{{json .EAVModel}}

## Project
- **Topic**: {{.Project.MainTopic}}
- **Audience**: {{.Project.Audience}}
- **Objectives**: {{objectives .Project.Objectives}}
{{with .KeywordData}}
## Haloscan data (REAL STRUCTURE TO FOLLOW)

### Haloscan cluster structure
This structure is the OPTIMAL organisation according to Google:
{{clusters .Clusters}}

### PAA questions (to cover in the pages)
{{questions .Questions 25}}

### Keywords by opportunity (KGR < 0.25 = easy to rank)
{{opportunities .SimilarKeywords}}

### High-volume keywords (for the Pillars)
{{highVolume .SimilarKeywords}}
{{end}}
## Your task
**CRITICAL**: The structure of your Topical Map must MIRROR the Haloscan clusters. Do NOT create an arbitrary structure.

Produce a Topical Map with:

1. **Pillars (1-2)**: based on HIGH-VOLUME keywords
   - Title rephrases the seed or the main cluster
   - Covers the main PAA questions

2. **Clusters (4-8)**: match the Haloscan V1 categories
   - Each cluster is one Haloscan category
   - Keywords are those of the matching cluster

3. **Supporting (6-12)**: detail pages
   - Answer specific PAA questions
   - Target keywords with a GOOD KGR (< 0.25)
   - Cover the 5W+H angles

## Linking rules
- Every cluster links to its parent pillar
- Every supporting page links to its parent cluster
- At least 3 contextual bridges are needed to justify a link

## Response format (JSON only)
{
  "nodes": [
    {
      "id": "string (unique)",
      "type": "pillar|cluster|supporting",
      "title": "string",
      "description": "string",
      "intent": "informational|navigational|transactional|commercial",
      "fiveWH": ["what", "who", "where", "when", "why", "how"],
      "keywords": [{"keyword": "string", "volume": number, "kgr": number|null, "isMain": boolean}],
      "paaQuestions": ["string"],
      "basedOnHaloscanCluster": "string|null"
    }
  ],
  "edges": [
    {"source": "nodeId", "target": "nodeId", "type": "hierarchical|contextual"}
  ]
}`,
		Validators: []Validator{
			RequirePresent("KnowledgeDomain", func(in Input) bool { return in.KnowledgeDomain != nil }),
			RequirePresent("ContextVector", func(in Input) bool { return in.ContextVector != nil }),
			RequirePresent("EAVModel", func(in Input) bool { return in.EAVModel != nil }),
		},
	})
}
