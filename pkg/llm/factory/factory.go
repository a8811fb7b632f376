package factory

import (
	"fmt"

	"ai-admissions-be/pkg/llm"
	"ai-admissions-be/pkg/llm/huggingface"
	"ai-admissions-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "huggingface":
		if apiKey == "" {
			return nil, fmt.Errorf("huggingface provider requires LLM_API_KEY")
		}
		return huggingface.NewHuggingFaceProvider(apiKey, baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
