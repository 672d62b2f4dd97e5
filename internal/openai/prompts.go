package openai

import "fmt"

const researchSystemPrompt = "You are a research assistant with web search capabilities. " +
	"Search the internet for specific, current information about photography clubs rather than relying on training data. " +
	"Focus on concrete details: recent events, specific activities, and unique characteristics of each club. " +
	"Structure your response with three distinct sections for the different email types."

// researchPrompt asks for one blob covering all three stages, delimited by
// the exact markers internal/research parses.
func researchPrompt(clubName, website, country string) string {
	if country == "" {
		country = "Unknown"
	}
	if website == "" {
		website = "Not provided"
	}
	return fmt.Sprintf(`Search the web and find specific, current information about the photography club %q.

Club details to help your search:
- Name: %s
- Country: %s
- Website: %s

Look for recent activities, upcoming events, photography specialties, notable achievements, community projects, club structure, and communication channels. Provide concrete findings specific to this club; if nothing specific can be found, say so honestly and describe what is known about photography clubs in the region.

FORMAT YOUR RESPONSE WITH THREE DISTINCT SECTIONS:

=== INTRODUCTION EMAIL RESEARCH ===
[Information for a first-contact email offering a DxO discount: recent impressive activities, specialties that align with DxO software, characteristics that show we did our research.]

=== CHECK-UP EMAIL RESEARCH ===
[Information for a follow-up email when they have not responded: upcoming events or deadlines where DxO tools help, seasonal activities, time-sensitive opportunities.]

=== ACCEPTANCE EMAIL RESEARCH ===
[Information for when they accept the offer: club structure and leadership, membership size, how member benefits are usually distributed, best channels to reach all members.]`,
		clubName, clubName, country, website)
}

const personalizeSystemPrompt = "You are a marketing specialist for DxO Labs writing personalized content for photography club outreach. " +
	"Generate ONLY the requested personalized sentences, nothing else. Do not include any email template or greeting."

func personalizePrompt(clubName, researchSection string) string {
	return fmt.Sprintf(`Write 2-3 personalized sentences for an outreach email to the photography club %q, proving we know this specific club. Base them strictly on the research below. Mention concrete activities or specialties; do not invent facts.

Research:
%s`, clubName, researchSection)
}
