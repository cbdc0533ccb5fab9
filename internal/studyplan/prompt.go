package studyplan

import (
	"fmt"
	"strings"
)

// MaxContentRunes caps how much of the pasted notes is embedded in a prompt.
const MaxContentRunes = 500_000

// Greeting opens every tutor transcript.
const Greeting = "Hi! I'm your virtual tutor. I've gone through your notes. " +
	"What would you like to ask? I can explain difficult concepts, quiz you " +
	"on the material or help you memorize it."

const planSystemPrompt = `You are a strict but helpful university teacher.
Always return valid JSON that matches the schema.
All subject matter must be written in %s.`

const planPromptTemplate = `You are an expert in teaching %s. I have a document I must master in exactly 3 days (plus Day 0 for the foundations).

Split the content below into 4 logical sections:
- Day 0: Key definitions, basic structure, general overview (the most important triads, scales, symptoms).
- Day 1: The first half of the detailed content.
- Day 2: The second half of the detailed content.
- Day 3: Review, complex connections, complications and clinical cases.

For EACH day generate:
1. A topic summary (topicSummary).
2. 8-10 flashcards: question on the front, answer on the back.
3. 5 multiple choice quiz questions.
4. A concrete, effective study strategy (e.g. Memory Palace, Feynman Technique, Active Recall) suited to that day's content.

IMPORTANT: The entire response (questions, answers, strategies) must be in %s.

Here is the content to study:
%s`

const tutorSystemTemplate = `You are a helpful and patient %s tutor.
Your job is to help the student understand the material below.
Answer briefly, concretely and in %s.
If the student asks for an explanation, use simple analogies.
If the student asks to be quizzed, ask a question from the material.

SOURCE MATERIAL:
%s`

// truncateRunes returns the first n runes of s.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func buildPlanSystem(cfg Config) string {
	return fmt.Sprintf(planSystemPrompt, cfg.Language)
}

func buildPlanPrompt(content string, cfg Config) string {
	return fmt.Sprintf(planPromptTemplate, cfg.Subject, strings.ToUpper(cfg.Language), truncateRunes(content, MaxContentRunes))
}

func buildTutorSystem(sourceText string, cfg Config) string {
	return fmt.Sprintf(tutorSystemTemplate, cfg.Subject, cfg.Language, truncateRunes(sourceText, MaxContentRunes))
}
