package testgen

import "fmt"

const (
	// QuestionsPerTest is how many questions every generated test asks for.
	QuestionsPerTest = 5
	// OptionsPerQuestion is how many answer options each question carries.
	OptionsPerQuestion = 4
)

// BuildPrompt constructs the generation instruction for a topic. The request
// shape is fixed: QuestionsPerTest questions, OptionsPerQuestion options
// each, independent of the topic text.
func BuildPrompt(topicTitle, topicDescription string) string {
	return fmt.Sprintf(`Generate a test for the topic "%s".
Topic description: %s
Create %d multiple-choice questions with %d options each.
Provide the correct answer and an explanation for each question.`,
		topicTitle, topicDescription, QuestionsPerTest, OptionsPerQuestion)
}
