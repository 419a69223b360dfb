package analyzer

import "fmt"

const contentPromptFormat = `
Act as a cybersecurity expert specializing in phishing email detection.
Analyze the following email content and determine if it's likely to be a phishing attempt.

Consider these key phishing indicators:
1. Urgency or threatening language
2. Poor grammar or spelling
3. Mismatched or suspicious sender information
4. Requests for personal information
5. Suspicious attachments or links
6. Offers that seem too good to be true

Email content:
%s

Provide a structured analysis with:
- Phishing likelihood (High, Medium, Low)
- Key suspicious elements found (if any)
- Brief explanation of your assessment

Format your response as a JSON with the following fields:
- phishing_likelihood: "High", "Medium", or "Low"
- suspicious_elements: [list of suspicious elements]
- explanation: Your reasoning
`

const urlPromptFormat = `
Act as a cybersecurity expert specializing in URL analysis.
Analyze the following URL and determine if it's likely to be malicious or part of a phishing attempt.

URL: %s

Consider these key suspicious indicators:
1. Domain misspellings or lookalike domains
2. Unusual subdomains
3. Non-standard TLDs
4. Excessive use of numbers or special characters
5. Unusually long domains
6. URL shorteners that might hide the actual destination

Format your response as a JSON with the following fields:
- suspicious_likelihood: "High", "Medium", or "Low"
- suspicious_elements: [list of suspicious elements]
- explanation: Your reasoning
`

// ContentPrompt builds the email content analysis prompt
func ContentPrompt(emailBody string) string {
	return fmt.Sprintf(contentPromptFormat, emailBody)
}

// URLPrompt builds the single URL analysis prompt
func URLPrompt(url string) string {
	return fmt.Sprintf(urlPromptFormat, url)
}
