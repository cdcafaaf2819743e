package openai

import (
	"fmt"
	"strings"
)

const analysisResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "summary": {"type": "string"},
    "overall_risk": {"type": "string", "enum": ["low", "medium", "high"]},
    "risk_score": {"type": "integer", "minimum": 0, "maximum": 100},
    "full_text": {"type": "string"},
    "clauses": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": "string"},
          "text": {"type": "string"},
          "explanation": {"type": "string"},
          "risk_level": {"type": "string", "enum": ["low", "medium", "high"]},
          "risky_keywords": {"type": "array", "items": {"type": "string"}},
          "reason": {"type": "string"}
        },
        "required": ["id", "text", "explanation", "risk_level", "risky_keywords", "reason"],
        "additionalProperties": false
      }
    }
  },
  "required": ["summary", "overall_risk", "risk_score", "full_text", "clauses"],
  "additionalProperties": false
}`

const analysisPromptTemplate = `You are a legal document analyst. Read the attached document, transcribe its
full text, and extract every contractual clause with a plain-language explanation and a risk assessment.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- "summary" is a short plain-language summary of the document as a whole.
- "risk_score" is an integer from 0 (no risk) to 100 (severe risk). "overall_risk" must be consistent with
  the score: below 40 is "low", 40 to 70 is "medium", above 70 is "high".
- "full_text" is the complete transcribed text of the document.
- Each clause's "text" is the original span, "explanation" restates it in plain language, "risky_keywords"
  lists the words or phrases that justify the risk level, and "reason" states why that level was assigned.
- Clause "id" values must be unique within the response (e.g. "c1", "c2", ...).
- If the document contains no legal obligations at all, return "overall_risk": "low", "risk_score": 0,
  a summary stating that no legal obligations were found, and either an empty "clauses" array or a single
  informational clause.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.`

// analysisSystemPrompt creates the system prompt with the response schema embedded.
func analysisSystemPrompt() string {
	return fmt.Sprintf(analysisPromptTemplate, analysisResponseSchema)
}

const askSystemPrompt = `You are a legal assistant. Answer the user's question about the given contract
clause in plain language, in a few sentences. Base your answer only on the clause text provided. If the
clause does not contain enough information to answer, say so.`

const chatGeneralPrompt = `You are a legal assistant. No document context has been provided, so limit
yourself to general guidance about contracts and legal terminology. Do not speculate about the contents of
any specific document, and recommend consulting a qualified lawyer for decisions.`

const chatContextPromptTemplate = `You are a legal assistant answering questions about the following
document. Cite the specific sections or clauses of the supplied text that support each answer. Do not invent
terms or provisions that are not present in the text. If the answer is not in the document, say so.

Document:
%s`

const comparePromptTemplate = `You are a legal analyst comparing contract analyses. The user will supply two
or more analyzed documents. Decide which one is the most favorable for the signing party and explain why.

Output ONLY valid JSON of the form:
{"recommended": "<exact document name>", "reasoning": "<plain-language explanation>", "key_differences": ["..."]}

Rules:
- "recommended" must be one of these exact document names: %s.
- Refer to documents strictly by their exact provided names everywhere in your output. Never use ordinal
  placeholders such as "Document 1" or "the first document".
- "key_differences" lists the material differences that drove the recommendation.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.`

// compareSystemPrompt creates the comparison system prompt with the allowed
// document names embedded.
func compareSystemPrompt(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = fmt.Sprintf("%q", name)
	}
	return fmt.Sprintf(comparePromptTemplate, strings.Join(quoted, ", "))
}
