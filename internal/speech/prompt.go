package speech

import (
	"fmt"
	"strings"
)

const analysisSystemPrompt = `You are an experienced English pronunciation coach. You listen to a learner reading a target sentence aloud and assess how accurately each word was pronounced.`

var strictness = map[Difficulty]string{
	Easy:   "Be lenient. Accept any accent and only flag words that would be misunderstood by a native listener.",
	Medium: "Be fair. Flag words with clearly wrong vowels, consonants or stress, but accept a noticeable accent.",
	Hard:   "Be strict. Flag every deviation from standard pronunciation, including weak stress, reduced vowels and linking.",
}

func buildAnalysisUserMessage(target string, d Difficulty) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Target sentence: %q\n", target))
	b.WriteString(fmt.Sprintf("Difficulty: %s\n", d.Label()))
	b.WriteString(strictness[d])
	b.WriteString(`

Instructions:
1. Transcribe exactly what was said in the recording.
2. Compare it with the target sentence word by word.
3. List each mispronounced word exactly as it appears in the target sentence. Leave the list empty if there are none.
4. Give an accuracy score from 0 to 100, where 100 means every word was pronounced correctly.
5. Keep feedback short and encouraging. Tips should name the specific sounds to work on.
6. If the recording is silent or unrelated to the sentence, score it 0 and say so in the feedback.`)

	return b.String()
}

const phraseSystemPrompt = `You write short English sentences for pronunciation practice. Sentences are natural, everyday and self-contained.`

var phraseLength = map[Difficulty]string{
	Easy:   "5-8 common words with simple sounds",
	Medium: "8-12 words including a few tricky consonant clusters or vowel pairs",
	Hard:   "12-18 words with tongue-twisting sound combinations, linking and varied stress",
}

func buildPhraseUserMessage(d Difficulty) string {
	return fmt.Sprintf(`Write one sentence of %s.
Difficulty: %s
Use plain ASCII punctuation. Do not wrap the sentence in quotes.`, phraseLength[d], d.Label())
}
