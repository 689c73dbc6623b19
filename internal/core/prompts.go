package core

import (
	"fmt"
	"strings"
)

// Prompt builders are pure string templates. Each one asks the
// generation service for a specific JSON shape; none of them validates
// its input — emptiness is rejected by the callers before any prompt
// is built.

func LearningPlanPrompt(topic string) string {
	return fmt.Sprintf(`Please come up with a thorough learning plan for the requested course. The learning plan should include a title and a list of 3 to 12 lessons.

Requested Course: %s

Provide the Learning Plan as a JSON object as shown below:
{
  "title": "Course Title",
  "lessons": ["Lesson Title 1", "Lesson Title 2", "Lesson Title 3"]
}
`, topic)
}

func LessonSectionsPrompt(lessonTitle string, allLessons []string) string {
	var plan strings.Builder
	for _, lesson := range allLessons {
		plan.WriteString("- ")
		plan.WriteString(lesson)
		plan.WriteString("\n")
	}

	return fmt.Sprintf(`The user has agreed to the following learning plan:

Learning Plan:
%s
Based on chosen lesson from the learning plan, please come up with 3 to 12 sections which give the learner a full understanding of the subject.

Chosen Lesson: %s

Provide the sections as a JSON object as shown below:
{
  "sections": ["Section 1", "Section 2", "Section 3"]
}
`, plan.String(), lessonTitle)
}

func LessonContentPrompt(lessonTitle string, sections []string) string {
	var list strings.Builder
	for _, section := range sections {
		list.WriteString("- ")
		list.WriteString(section)
		list.WriteString("\n")
	}

	return fmt.Sprintf(`Please write full educational content for the lesson below, covering each of its sections.

Lesson: %s

Sections:
%s
Provide the content as a JSON object as shown below:
{
  "title": "Lesson Title",
  "sections": [
    {
      "title": "Section Title",
      "content": "A thorough explanation of the section topic.",
      "keyPoints": ["Key point 1", "Key point 2"],
      "examples": ["Example 1", "Example 2"],
      "exercises": ["Exercise 1", "Exercise 2"]
    }
  ]
}
`, lessonTitle, list.String())
}

func SectionContentPrompt(lessonTitle, sectionTitle string) string {
	return fmt.Sprintf(`Please write full educational content for the chosen section of the lesson below. The content should give the learner a complete understanding of the section topic.

Lesson: %s

Chosen Section: %s

Provide the content as a JSON object as shown below:
{
  "content": "A thorough explanation of the section topic.",
  "keyPoints": ["Key point 1", "Key point 2"],
  "examples": ["Example 1", "Example 2"],
  "exercises": ["Exercise 1", "Exercise 2"]
}
`, lessonTitle, sectionTitle)
}
