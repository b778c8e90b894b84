package main

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-engine/internal/handlers"
	"github.com/jwebster45206/adventure-engine/internal/session"
	"github.com/muesli/reflow/wordwrap"
)

const (
	PlaceHolderText = "What do you do?"
)

type entryKind int

const (
	entryPlayer entryKind = iota
	entryNarration
	entryNotice
	entryError
)

// transcriptEntry is one block of the scrolling transcript.
type transcriptEntry struct {
	kind entryKind
	text string
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	api          *apiClient
	gameID       uuid.UUID
	summary      *session.GameSummary
	transcript   []transcriptEntry
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	ended        bool
	width        int
	height       int
	err          error
	loading      bool

	// Story selection state
	showStoryModal bool
	stories        []handlers.StoryInfo
	selectedStory  int
	loadingStories bool

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type turnResponseMsg struct {
	response *handlers.TurnResponse
	notice   string
	err      error
}

type summaryMsg struct {
	summary *session.GameSummary
	err     error
}

type storiesLoadedMsg struct {
	stories []handlers.StoryInfo
	err     error
}

type gameCreatedMsg struct {
	response *handlers.TurnResponse
	err      error
}

type noticeMsg struct {
	text string
	err  error
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	locationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, api *apiClient) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render("> ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:         cfg,
		api:            api,
		textarea:       ta,
		chatViewport:   chatVp,
		metaViewport:   metaVp,
		showStoryModal: true,
		loadingStories: true,
	}
}

func writeMetadata(id uuid.UUID, sum *session.GameSummary) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("GAME STATE") + "\n\n")

	content.WriteString("Game ID:\n")
	content.WriteString(id.String()[:8] + "...\n\n")

	if sum != nil {
		content.WriteString("Story:\n" + sum.Story + "\n\n")
		content.WriteString("Location:\n" + sum.Location + "\n\n")
		content.WriteString(fmt.Sprintf("Score: %d\nMoves: %d\nDeaths: %d\n\n", sum.Score, sum.Moves, sum.Deaths))

		content.WriteString("Inventory:\n")
		if len(sum.Inventory) == 0 {
			content.WriteString("Empty-handed\n")
		}
		for _, item := range sum.Inventory {
			content.WriteString("• " + item + "\n")
		}
	}

	content.WriteString("\n")
	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Send\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /save: Copy save\n")
	content.WriteString("• /restore: Paste save\n")

	return content.String()
}

// writeChatContent rebuilds the transcript for the current viewport width.
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6 // Account for left(3) + right(3) padding
	if chatWidth < 20 {
		chatWidth = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("ADVENTURE ENGINE") + "\n\n")
	content.WriteString("Type commands like \"open mailbox\" or \"north\" and press Enter.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", chatWidth)) + "\n\n")

	for _, entry := range m.transcript {
		switch entry.kind {
		case entryPlayer:
			content.WriteString(userStyle.Render("> ") + wordwrap.String(entry.text, chatWidth-2) + "\n\n")
		case entryNarration:
			content.WriteString(formatNarration(entry.text, chatWidth) + "\n\n")
		case entryNotice:
			content.WriteString(loadingStyle.Render(wordwrap.String(entry.text, chatWidth)) + "\n\n")
		case entryError:
			content.WriteString(errorStyle.Render("Error: "+wordwrap.String(entry.text, chatWidth-7)) + "\n\n")
		}
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

// formatNarration wraps narration and highlights a leading location header,
// which the engine prints on a line of its own.
func formatNarration(text string, width int) string {
	lines := strings.Split(wordwrap.String(text, width), "\n")
	for i, line := range lines {
		switch {
		case i == 0 && len(lines) > 1 && !strings.HasSuffix(line, ".") && len(line) < 40:
			lines[i] = locationStyle.Render(line)
		default:
			lines[i] = narratorStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func (m *ConsoleUI) appendEntry(kind entryKind, text string) {
	m.transcript = append(m.transcript, transcriptEntry{kind: kind, text: text})
}

func (m ConsoleUI) Init() tea.Cmd {
	if m.showStoryModal {
		return m.loadStories()
	}
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showStoryModal {
		return m.updateStoryModal(msg)
	}

	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.writeChatContent()
		m.metaViewport.SetContent(writeMetadata(m.gameID, m.summary))

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}
			if m.ended {
				m.appendEntry(entryNotice, "The game is over. Press Ctrl+C to leave.")
				m.writeChatContent()
				return m, nil
			}

			m.loading = true
			m.progressTick = 0
			m.appendEntry(entryPlayer, input)
			m.writeChatContent()

			return m, tea.Batch(m.playTurn(input), progressTick())
		}

	case turnResponseMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.appendEntry(entryError, msg.err.Error())
			m.writeChatContent()
			return m, nil
		}
		if msg.notice != "" {
			m.appendEntry(entryNotice, msg.notice)
		}
		m.appendEntry(entryNarration, msg.response.Narration)
		for _, w := range msg.response.Warnings {
			m.appendEntry(entryNotice, "("+w+")")
		}
		if msg.response.Ended {
			m.ended = true
			m.appendEntry(entryNotice, "The game has ended.")
		}
		m.writeChatContent()
		return m, m.refreshSummary()

	case noticeMsg:
		if msg.err != nil {
			m.appendEntry(entryError, msg.err.Error())
		} else {
			m.appendEntry(entryNotice, msg.text)
		}
		m.writeChatContent()
		return m, nil

	case summaryMsg:
		if msg.err == nil && msg.summary != nil {
			m.summary = msg.summary
			m.metaViewport.SetContent(writeMetadata(m.gameID, m.summary))
		}

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *ConsoleUI) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6
	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 5
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd := strings.ToLower(strings.TrimSpace(input))

	switch cmd {
	case "/help":
		m.appendEntry(entryNotice, `Commands:
• /help - Show this help
• /save - Copy the game to the clipboard
• /restore - Restore a game from the clipboard
• Ctrl+C - Quit

How to play:
• Type short commands: "look", "take lamp", "go north", "put leaflet in mailbox"
• "inventory" (or "i") lists what you carry; "score" shows your progress`)
		m.writeChatContent()
		return m, nil

	case "/save":
		return m, m.copySave()

	case "/restore":
		m.loading = true
		m.progressTick = 0
		return m, tea.Batch(m.pasteRestore(), progressTick())
	}

	m.appendEntry(entryError, "Unknown command "+cmd+". Try /help.")
	m.writeChatContent()
	return m, nil
}

func (m ConsoleUI) playTurn(input string) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.api.playTurn(m.gameID, input)
		return turnResponseMsg{response: resp, err: err}
	}
}

// copySave puts the base64 save blob on the clipboard.
func (m ConsoleUI) copySave() tea.Cmd {
	return func() tea.Msg {
		blob, err := m.api.saveGame(m.gameID)
		if err != nil {
			return noticeMsg{err: err}
		}
		if err := clipboard.WriteAll(base64.StdEncoding.EncodeToString(blob)); err != nil {
			return noticeMsg{err: fmt.Errorf("failed to copy save to clipboard: %w", err)}
		}
		return noticeMsg{text: "Game saved to the clipboard. Use /restore to load it later."}
	}
}

// pasteRestore reads a save blob from the clipboard into this game.
func (m ConsoleUI) pasteRestore() tea.Cmd {
	return func() tea.Msg {
		text, err := clipboard.ReadAll()
		if err != nil {
			return turnResponseMsg{err: fmt.Errorf("failed to read clipboard: %w", err)}
		}
		blob, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text))
		if err != nil {
			return turnResponseMsg{err: fmt.Errorf("clipboard does not hold a saved game")}
		}
		resp, err := m.api.restoreGame(m.gameID, blob)
		return turnResponseMsg{response: resp, notice: "Restoring from clipboard...", err: err}
	}
}

func (m ConsoleUI) refreshSummary() tea.Cmd {
	return func() tea.Msg {
		sum, err := m.api.getGame(m.gameID)
		return summaryMsg{sum, err}
	}
}

func (m ConsoleUI) loadStories() tea.Cmd {
	return func() tea.Msg {
		stories, err := m.api.listStories()
		return storiesLoadedMsg{stories, err}
	}
}

func (m ConsoleUI) createGame(story string) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.api.createGame(story)
		return gameCreatedMsg{resp, err}
	}
}

func (m ConsoleUI) updateStoryModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case storiesLoadedMsg:
		m.loadingStories = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.stories = msg.stories
		}

	case gameCreatedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.gameID = msg.response.GameStateID
		m.showStoryModal = false
		m.appendEntry(entryNarration, msg.response.Narration)
		m.layout()
		m.writeChatContent()
		m.metaViewport.SetContent(writeMetadata(m.gameID, m.summary))
		m.textarea.Focus()
		m.ready = true
		return m, tea.Batch(textarea.Blink, m.refreshSummary())

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if m.loadingStories || m.err != nil || m.loading {
			return m, nil
		}

		switch msg.Type {
		case tea.KeyUp:
			if m.selectedStory > 0 {
				m.selectedStory--
			}
		case tea.KeyDown:
			if m.selectedStory < len(m.stories)-1 {
				m.selectedStory++
			}
		case tea.KeyEnter:
			if len(m.stories) > 0 {
				m.loading = true
				return m, m.createGame(m.stories[m.selectedStory].Name)
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Your game stays on the server until it expires.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderStoryModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	switch {
	case m.loadingStories:
		content.WriteString(modalTitleStyle.Render("Loading Stories..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Please wait while we fetch available stories..."))
	case m.err != nil:
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("%v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	case m.loading:
		content.WriteString(modalTitleStyle.Render("Creating Game..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Setting up your adventure..."))
	default:
		content.WriteString(modalTitleStyle.Render("Select a Story"))
		content.WriteString("\n\n")

		for i, s := range m.stories {
			if i == m.selectedStory {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", s.Title)))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", s.Title)))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showStoryModal {
		return m.renderStoryModal()
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", chatWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30 // fallback before sizing
	}

	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓") // Blinking effect at the progress point
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
