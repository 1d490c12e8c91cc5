package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/ashborne/pkg/game"
	"github.com/muesli/reflow/wordwrap"
)

const (
	PlaceHolderText = "What do you do? (e.g. enter_village, search docks, use brass_key)"
	NamePlaceholder = "Your name (optional)"
)

type speaker int

const (
	speakerNarrator speaker = iota
	speakerPlayer
	speakerSystem
)

type entry struct {
	speaker speaker
	text    string
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	game         *game.Game
	narrator     string
	entries      []entry
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int

	// Name prompt shown before the adventure starts
	showNameModal bool

	// Quit confirmation state
	showQuitModal bool
}

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

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	systemStyle = lipgloss.NewStyle().
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
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(g *game.Game, narrator string) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = NamePlaceholder
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		game:          g,
		narrator:      narrator,
		textarea:      ta,
		chatViewport:  chatVp,
		metaViewport:  metaVp,
		showNameModal: true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func writeMetadata(g *game.Game) string {
	s := g.Session()
	var content strings.Builder
	content.WriteString(titleStyle.Render("SESSION") + "\n\n")

	content.WriteString("Session ID:\n")
	content.WriteString(s.ShortID() + "\n\n")

	if s.PlayerName != "" {
		content.WriteString("Investigator:\n")
		content.WriteString(s.PlayerName + "\n\n")
	}

	content.WriteString("Scene:\n")
	content.WriteString(s.CurrentScene + "\n\n")

	content.WriteString("HP:\n")
	content.WriteString(fmt.Sprintf("%d/%d\n\n", s.Health(), s.MaxHealth()))

	content.WriteString("Inventory:\n")
	if len(s.Inventory) == 0 {
		content.WriteString("Empty\n")
	}
	for _, it := range s.Inventory {
		content.WriteString("• " + it + "\n")
	}

	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("Clues: %d\n", len(s.Journal)))
	content.WriteString(fmt.Sprintf("Moves: %d\n", len(s.History)))

	content.WriteString("\n")
	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Act\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /journal: Journal\n")
	content.WriteString("• /scene: Look around\n")
	content.WriteString("• /restart: Start over\n")

	return content.String()
}

// writeChatContent rebuilds the chat panel for the current viewport width
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6 // Account for left(3) + right(3) padding
	if chatWidth < 20 {
		chatWidth = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("ASHBORNE") + "\n\n")
	content.WriteString("Type an action below and press Enter.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", chatWidth)) + "\n\n")

	for _, e := range m.entries {
		switch e.speaker {
		case speakerPlayer:
			content.WriteString(userStyle.Render("You: ") + wordwrap.String(e.text, chatWidth-5) + "\n\n")
		case speakerSystem:
			content.WriteString(systemStyle.Render(wordwrap.String(e.text, chatWidth)) + "\n\n")
		default:
			content.WriteString(formatNarration(e.text, m.narrator, chatWidth) + "\n\n")
		}
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

// formatNarration wraps narration and highlights the narrator's voice line, e.g. "Charlotte (urgent):".
func formatNarration(text, narrator string, width int) string {
	lines := strings.Split(wordwrap.String(text, width), "\n")
	for i, line := range lines {
		if narrator != "" && strings.HasPrefix(line, narrator) && strings.HasSuffix(line, ":") {
			lines[i] = speakerStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func (m *ConsoleUI) layout() {
	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
}

func (m *ConsoleUI) refresh() {
	m.writeChatContent()
	m.metaViewport.SetContent(writeMetadata(m.game))
}

func (m *ConsoleUI) narrate(text string) {
	m.entries = append(m.entries, entry{speaker: speakerNarrator, text: text})
	m.refresh()
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.showNameModal {
		return m.updateNameModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if input == "" {
				return m, nil
			}
			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.entries = append(m.entries, entry{speaker: speakerPlayer, text: input})
			m.narrate(m.game.PlayerAction(input))
			return m, nil
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "/help":
		m.entries = append(m.entries, entry{speaker: speakerSystem, text: `Commands:
• /help - Show this help
• /journal - Show clues, inventory and recent moves
• /scene - Describe where you are
• /restart - Start the adventure over
• Ctrl+C - Quit game

How to play:
• Say a choice name, like enter_village
• Or describe it, like "search the docks"
• Use an item you carry with "use <item>"`})
		m.refresh()
	case "/journal":
		m.narrate(m.game.ShowJournal())
	case "/scene":
		m.narrate(m.game.GetScene())
	case "/restart":
		m.narrate(m.game.RestartAdventure())
	default:
		m.entries = append(m.entries, entry{speaker: speakerSystem, text: "Unknown command " + input + ". Try /help."})
		m.refresh()
	}
	return m, nil
}

func (m ConsoleUI) updateNameModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			name := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			m.textarea.Placeholder = PlaceHolderText
			m.showNameModal = false
			if m.width > 0 && m.height > 0 {
				m.layout()
			}
			m.ready = true
			m.narrate(m.game.StartAdventure(name))
			m.textarea.Focus()
			return m, textarea.Blink
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
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
	content.WriteString("Are you sure you want to leave Ashborne?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderNameModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Who walks into Ashborne?"))
	content.WriteString("\n\n")
	content.WriteString(m.textarea.View())
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Enter to begin (leave empty to stay nameless), Ctrl+C to exit"))

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.showNameModal {
		return m.renderNameModal()
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
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 0))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}
