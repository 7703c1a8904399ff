// Package llm implements the language-understanding collaborators of the
// curation loop: feedback categorization, removal decisions and search
// query generation, all against an OpenAI-compatible API.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sashabaranov/go-openai"

	"github.com/umputun/feedscope/pkg/config"
	"github.com/umputun/feedscope/pkg/timeline"
)

// Advisor drives the LLM calls of the curation engine
type Advisor struct {
	client    *openai.Client
	config    config.LLMConfig
	sanitizer *bluemonday.Policy
}

// NewAdvisor creates an advisor from the LLM configuration
func NewAdvisor(cfg config.LLMConfig) *Advisor {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}

	return &Advisor{
		client:    openai.NewClientWithConfig(clientConfig),
		config:    cfg,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Categorization splits one feedback fragment into additive and
// subtractive desires, either of which may be empty
type Categorization struct {
	Additive    string `json:"additive"`
	Subtractive string `json:"subtractive"`
}

const categorizeSystemPrompt = `You are a bot on a social media platform. The user will write you a message that reflects their preferences. This message may contain desires to remove content (which we will call subtractive desires) and add more content (which we will call additive desires). You will rewrite the user's input as two strings to separate the additive and subtractive desires. Return a JSON object with two fields, "additive" and "subtractive", with additive desires in the "additive" field and subtractive desires in the "subtractive" field.

When rewriting, keep the same tone and style of writing as the original message. It is possible the user may only express one type of desire. If this is the case, assign an empty string to the desire not expressed by the user. Do not return anything except for the stringified JSON object with the two fields. Don't apply formatting with backticks, just start and end your response with curly braces from the JSON object.`

// Categorize splits free-text user feedback into additive and subtractive
// phrases, preserving the original tone. An empty response means neither
// desire was expressed.
func (a *Advisor) Categorize(ctx context.Context, text string) (Categorization, error) {
	content, err := a.chat(ctx, categorizeSystemPrompt, "The user's message is: "+text)
	if err != nil {
		return Categorization{}, err
	}

	if content == "" {
		return Categorization{}, nil
	}

	// models occasionally wrap the object in prose despite instructions
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || start >= end {
		return Categorization{}, fmt.Errorf("no json object found in categorization response")
	}

	var result Categorization
	if err := json.Unmarshal([]byte(content[start:end+1]), &result); err != nil {
		return Categorization{}, fmt.Errorf("failed to parse categorization response: %w", err)
	}
	return result, nil
}

const removalSystemPromptFmt = `You are a bot on social media feeds that filters posts based on user preferences. The user has stated their preference as: %s. You are given a series of posts from a feed and you will identify posts that should be removed. When the user wants less or fewer of something, reduce it but make sure to not remove it completely. Posts should only be removed if they strongly conflict with user preferences. They stay if you think the user will not be strongly opposed to it.

You will refer to posts by the post number (just the number, no words). If you identify posts that should be removed, give me a list of post numbers, separated by commas, corresponding to those you think should be removed. If you think all the posts should stay, tell me "None". Do not respond with anything other than a list of comma-separated numbers or "None".`

// DecideRemovals submits the candidate batch with the subtractive
// preference and returns the zero-based positions to remove, validated
// against the batch. An empty or "None" response keeps everything.
// Non-numeric and out-of-range entries are silently discarded.
func (a *Advisor) DecideRemovals(ctx context.Context, batch []timeline.Slice, preference string) ([]int, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	for i, slice := range batch {
		sb.WriteString(fmt.Sprintf("Post %d: %s\n\n", i, a.renderSlice(slice)))
	}

	content, err := a.chat(ctx, fmt.Sprintf(removalSystemPromptFmt, preference), sb.String())
	if err != nil {
		return nil, err
	}

	if content == "" || strings.EqualFold(content, "none") {
		return nil, nil
	}

	var positions []int
	for _, token := range strings.Split(content, ",") {
		pos, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil || pos < 0 || pos >= len(batch) {
			continue
		}
		positions = append(positions, pos)
	}
	return positions, nil
}

const queriesPromptFmt = `You are a bot on a social media platform. The user will write you a message that reflects their preferences. You will take a message that the user writes to you and provide a search query that can then be used in a platform-wide search feature to return content that is more aligned with the user's preferences.

Return a comma separated list of search terms. Do not include any other punctuation. Keep this list to at most %d terms.

The user's message is: %s

The search query is:`

// GenerateQueries turns the additive preference into short search terms,
// capped at the configured maximum. Empty or "None" means no supplementary
// retrieval.
func (a *Advisor) GenerateQueries(ctx context.Context, preference string) ([]string, error) {
	maxQueries := a.config.Curation.MaxQueries
	if maxQueries == 0 {
		maxQueries = 3
	}

	content, err := a.chat(ctx, "", fmt.Sprintf(queriesPromptFmt, maxQueries, preference))
	if err != nil {
		return nil, err
	}

	if content == "" || strings.EqualFold(content, "none") {
		return nil, nil
	}

	var queries []string
	for _, term := range strings.Split(content, ",") {
		if term = strings.TrimSpace(term); term != "" {
			queries = append(queries, term)
		}
		if len(queries) == maxQueries {
			break
		}
	}
	return queries, nil
}

// renderSlice renders a slice's lead post as one natural-language line for
// the removal prompt, stripping any markup from the body text
func (a *Advisor) renderSlice(slice timeline.Slice) string {
	lead := slice.Items[0]
	post := lead.Post

	text := fmt.Sprintf("%s (%s) posted at %s and said: %s",
		post.Author.DisplayName, post.Author.Handle,
		post.CreatedAt.Format("2006-01-02 15:04"),
		a.sanitizer.Sanitize(post.Text))

	if lead.Reason != nil {
		text += fmt.Sprintf(". This was reposted by %s (%s)",
			lead.Reason.By.DisplayName, lead.Reason.By.Handle)
	}
	return text
}

// chat performs one completion call and returns the trimmed content
func (a *Advisor) chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userPrompt,
	})

	req := openai.ChatCompletionRequest{
		Model:       a.config.Model,
		Temperature: float32(a.config.Temperature),
		MaxTokens:   a.config.MaxTokens,
		Messages:    messages,
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from llm")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
