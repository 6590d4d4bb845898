// Package advisor is a Gemini backed assistant primed with the day's
// portfolio report.
package advisor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

const systemPrompt = `You are an assistant for a private Taiwanese equities portfolio.
A daily report will be provided as a briefing. Ground every figure you give
in that briefing, and say so plainly when it does not contain the answer.
Answer in the language the user writes in. You never give trading advice.`

// Analyst is the chat session with the assistant.
type Analyst struct {
	chat *genai.Chat
}

// Start creates the chat and primes it with the report briefing.
func Start(ctx context.Context, client *genai.Client, briefing string) (*Analyst, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
	}
	chat, err := client.Chats.Create(ctx, model, config, nil)
	if err != nil {
		return nil, err
	}
	a := &Analyst{chat: chat}
	if _, err := a.Ask(ctx, "Briefing, today's portfolio report:\n\n"+briefing); err != nil {
		return nil, err
	}
	return a, nil
}

// Ask is a simple wrapper on top of Chat.Send.
func (a *Analyst) Ask(ctx context.Context, question string) (string, error) {
	resp, err := a.chat.Send(ctx, &genai.Part{Text: question})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from the analyst")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

const prompt = "assist> "

// Run starts the interactive REPL session with the analyst.
func Run(ctx context.Context, client *genai.Client, briefing string, w io.Writer, r io.Reader, prompts ...string) error {
	a, err := Start(ctx, client, briefing)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Welcome to twr assist. Type 'bye' to exit.")
	reader := bufio.NewReader(r)
	for {
		fmt.Fprint(w, prompt)
		var input string

		// Flush prompts from the list and then ask the user.
		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			input = strings.TrimSpace(input)
			fmt.Fprintln(w, input)
		} else {
			line, err := reader.ReadString('\n')
			if err != nil {
				return nil
			}
			input = strings.TrimSpace(line)
		}

		if input == "" {
			continue
		}
		if input == "bye" {
			return nil
		}

		answer, err := a.Ask(ctx, input)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, answer)
	}
}
