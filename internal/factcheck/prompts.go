package factcheck

import "fmt"

func identifyClaimsPrompt(text string) string {
	return fmt.Sprintf(`Analyze the following text and identify specific factual claims that can be
computationally verified using Wolfram Alpha. Focus on claims involving:
- Mathematical calculations
- Scientific constants
- Nutritional and health facts
- Geographic information
- Historical dates
- Physical measurements
- Population statistics
- Other factual, quantitative information

Extract ONLY claims that can be verified through computation or factual lookup.
Respond with a JSON object of the form {"claims": ["claim one", "claim two"]}.
If there are no verifiable claims respond with {"claims": []}.

Text to analyze:
%s`, text)
}

func optimizeQueryPrompt(claim string) string {
	return fmt.Sprintf(`Convert the following factual claim into a concise, clear query optimized for Wolfram Alpha.
The query should be straightforward and directly solvable by Wolfram Alpha's computational engine.
Return only the optimized query as plain text, without any explanations or additional formatting.

Claim: %s`, claim)
}

func verdictPrompt(claim, query, response string) string {
	return fmt.Sprintf(`Based on the Wolfram Alpha response, determine whether the original claim is true, false,
or if the verification is inconclusive. Consider approximate values and reasonable margins of error.

Original claim: %s
Query sent to Wolfram Alpha: %s
Wolfram Alpha response: %s

Respond with a JSON object:
{"verdict": one of "True", "False", "Approximately True", "Approximately False", "Inconclusive",
 "explanation": a short explanation that references the Wolfram Alpha data}`, claim, query, response)
}
