package copilot

import "fmt"

// #region templates

const baselineTemplate = `You are an Ithkuil IV grammar expert.

TASK: Given an English description, select the correct CASE and FUNCTION.

VALID CASES: AFF, ERG, ABS, INS, THM, DAT, LOC, ALL, ABL, etc. (68 total)
VALID FUNCTIONS: STA (static/states) or DYN (dynamic/actions)

English description: "%s"

Respond with ONLY valid JSON:
{"case": "THREE_LETTER_CODE", "function": "STA_or_DYN", "reasoning": "why"}
`

const groundedTemplate = `You are an Ithkuil IV grammar expert.

TASK: Given an English description, select the correct CASE and FUNCTION.

VALID CASES (examples):
- AFF (Affective): for unwilled experiences like feeling cold, sneezing, emotions
- ERG (Ergative): for deliberate agents performing actions
- ABS (Absolutive): for entities undergoing change
- INS (Instrumental): for tools/instruments being used
- THM (Thematic): for neutral content/topics

VALID FUNCTIONS (only these two):
- STA (Static): for states, conditions, non-changing situations
- DYN (Dynamic): for actions, changes, motion

KEY RULES:
- AFF case REQUIRES STA function (experiences are states, not actions)
- ERG case REQUIRES DYN function (agents perform actions)
- INS case REQUIRES DYN function (instruments are actively used)

RELEVANT GRAMMAR FROM OFFICIAL DOCUMENTATION:
%s

English description: "%s"

Respond with ONLY valid JSON:
{"case": "THREE_LETTER_CODE", "function": "STA_or_DYN", "reasoning": "why"}
`

const retryTemplate = `Your previous suggestion was INVALID. Try again.

VALID FUNCTIONS ARE ONLY: STA or DYN (not EXPERIENCER, not semantic roles)
VALID CASES ARE: AFF, ERG, ABS, INS, THM, etc. (three-letter codes)

GRAMMAR RULES:
%s

REJECTION REASON: %s

English description: "%s"

Respond with ONLY valid JSON:
{"case": "THREE_LETTER_CODE", "function": "STA_or_DYN", "reasoning": "why"}
`

// #endregion templates

// #region builders

func baselinePrompt(input string) string {
	return fmt.Sprintf(baselineTemplate, input)
}

func groundedPrompt(input, grammarContext string) string {
	return fmt.Sprintf(groundedTemplate, grammarContext, input)
}

func retryPrompt(input, rejection, grammarContext string) string {
	return fmt.Sprintf(retryTemplate, grammarContext, rejection, input)
}

// #endregion builders
