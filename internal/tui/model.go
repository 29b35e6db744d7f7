// Package tui implements the interactive chat session.
package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"paperqa/internal/router"
	"paperqa/internal/service"
)

// Asker is the TUI-facing subset of the service.
type Asker interface {
	Ask(ctx context.Context, utterance string, topK int) (service.AskResult, error)
}

// Model is the Bubble Tea model for the chat session.
type Model struct {
	svc        Asker
	topK       int
	input      textinput.Model
	viewport   viewport.Model
	transcript []string
	status     string
	waiting    bool
	ready      bool
}

// New creates a chat model.
func New(svc Asker, status string, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the documents, or \"find paper on ...\""
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{svc: svc, topK: topK, input: ti, viewport: vp, status: status}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

type askDoneMsg struct {
	utterance string
	res       service.AskResult
	err       error
}

func (m Model) askCmd(utterance string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.Ask(context.Background(), utterance, m.topK)
		return askDoneMsg{utterance: utterance, res: res, err: err}
	}
}

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved - th
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(strings.Join(m.transcript, "\n\n"))
		return m, nil
	case askDoneMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.status = "Ready."
			m.transcript = append(m.transcript, renderResult(msg.utterance, msg.res))
		}
		m.viewport.SetContent(strings.Join(m.transcript, "\n\n"))
		m.viewport.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.waiting {
				m.waiting = true
				m.status = "Thinking..."
				m.transcript = append(m.transcript, promptStyle.Render("You: ")+q)
				m.viewport.SetContent(strings.Join(m.transcript, "\n\n"))
				m.viewport.GotoBottom()
				m.input.Reset()
				return m, m.askCmd(q)
			}
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("paperqa")
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func renderResult(utterance string, res service.AskResult) string {
	if res.Route == router.RouteLiteratureSearch {
		if len(res.Papers) == 0 {
			return answerStyle.Render("arXiv: ") + "no papers found."
		}
		var b strings.Builder
		b.WriteString(answerStyle.Render("arXiv:"))
		for i, p := range res.Papers {
			b.WriteString(fmt.Sprintf("\n%d. %s\n   %s\n   %s",
				i+1, p.Title, strings.Join(p.Authors, ", "), p.Link))
		}
		return b.String()
	}
	var b strings.Builder
	b.WriteString(answerStyle.Render("Answer: ") + res.Answer.Text)
	if len(res.Answer.Sources) > 0 {
		b.WriteString("\n" + sourceStyle.Render("Sources:"))
		for _, c := range res.Answer.Sources {
			b.WriteString(sourceStyle.Render(fmt.Sprintf(" %s p.%d", c.SourceFilename, c.PageNumber)))
		}
	}
	if len(res.Results) > 0 {
		top := res.Results[0]
		b.WriteString("\n" + sourceStyle.Render("Top passage: ") +
			highlightBestSentence(top.Chunk.Text, utterance))
	}
	return b.String()
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	promptStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	answerStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	sourceStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	highlightStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	unicodeWordRe      = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentenceRe         = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// highlightBestSentence emphasizes the sentence of the passage that shares
// the most word tokens with the query.
func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return strings.Join(sentences, " ")
	}
	bestIdx := 0
	bestScore := -1
	for i, s := range sentences {
		score := tokenOverlapScore(qTokens, s)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	for i := range sentences {
		sent := strings.TrimSpace(sentences[i])
		if i == bestIdx {
			sentences[i] = highlightStyle.Render(sent)
		} else {
			sentences[i] = sent
		}
	}
	return strings.Join(sentences, " ")
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	tokens := unicodeWordRe.FindAllString(strings.ToLower(sentence), -1)
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
