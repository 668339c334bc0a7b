package gemini

import "fmt"

// instructionTemplate は、ベース画像と一緒に送る指示文のテンプレートです
const instructionTemplate = `Based on the attached base image, create a high-quality cover image. Incorporate the following theme/idea: "%s". Maintain a consistent artistic style with the base image but make it unique to the prompt.`

// BuildInstruction は、プロンプトを埋め込んだ指示文を返します
func BuildInstruction(prompt string) string {
	return fmt.Sprintf(instructionTemplate, prompt)
}
