package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mws/internal/assets"
	"mws/internal/model"
)

// walletService is the manager surface the dashboard drives.
type walletService interface {
	CreateWallet(ctx context.Context, networkID string) (*model.WalletCreationResult, error)
	ImportWallet(ctx context.Context, encryptedSeed string) (*model.WalletExportSnapshot, error)
	CreateAddress(ctx context.Context) (*model.AddressRecord, error)
	ExportWallet(ctx context.Context) (*model.WalletExportSnapshot, error)
	RetrieveBalances(ctx context.Context) (map[string]string, error)
	CreateWebhook(ctx context.Context, callbackURL string) (*model.WebhookRegistration, error)
	ExecuteGaslessTransfer(ctx context.Context, req *model.GaslessTransferRequest) (*model.TransferResult, error)
	StoredIdentity() (walletID, networkID string, err error)
}

const opTimeout = 90 * time.Second

type state int

const (
	stateMenu state = iota
	stateInput
	stateRunning
	stateResult
)

type field struct {
	label       string
	placeholder string
}

type operation struct {
	title  string
	fields []field
	run    func(ctx context.Context, svc walletService, reg *assets.Registry, values []string) (string, error)
}

type opDone struct {
	body string
	err  error
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	resultStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// Model is the interactive wallet dashboard.
type Model struct {
	svc      walletService
	registry *assets.Registry

	state     state
	cursor    int
	ops       []operation
	input     textinput.Model
	values    []string
	fieldIdx  int
	spinner   spinner.Model
	result    string
	resultErr error
}

// storedWalletLine describes the seed blob currently on disk. Identity lives
// in the clear in the blob, so this needs no decryption and no provider call.
func storedWalletLine(svc walletService) string {
	walletID, networkID, err := svc.StoredIdentity()
	if err != nil {
		return "no wallet stored"
	}
	return fmt.Sprintf("stored wallet: %s (%s)", walletID, networkID)
}

// NewModel creates the dashboard model.
func NewModel(svc walletService, registry *assets.Registry) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.CharLimit = 4096
	ti.Width = 64

	return Model{
		svc:      svc,
		registry: registry,
		ops:      operations(),
		spinner:  sp,
		input:    ti,
	}
}

func operations() []operation {
	return []operation{
		{
			title:  "Create wallet",
			fields: []field{{label: "Network ID", placeholder: "base-sepolia"}},
			run: func(ctx context.Context, svc walletService, _ *assets.Registry, values []string) (string, error) {
				result, err := svc.CreateWallet(ctx, values[0])
				if err != nil {
					return "", err
				}
				return prettyJSON(result), nil
			},
		},
		{
			title:  "Import wallet",
			fields: []field{{label: "Encrypted seed blob", placeholder: "{...}"}},
			run: func(ctx context.Context, svc walletService, _ *assets.Registry, values []string) (string, error) {
				snapshot, err := svc.ImportWallet(ctx, values[0])
				if err != nil {
					return "", err
				}
				return prettyJSON(snapshot), nil
			},
		},
		{
			title: "Export wallet",
			run: func(ctx context.Context, svc walletService, _ *assets.Registry, _ []string) (string, error) {
				snapshot, err := svc.ExportWallet(ctx)
				if err != nil {
					return "", err
				}
				return prettyJSON(snapshot), nil
			},
		},
		{
			title: "Show balances",
			run: func(ctx context.Context, svc walletService, reg *assets.Registry, _ []string) (string, error) {
				balances, err := svc.RetrieveBalances(ctx)
				if err != nil {
					return "", err
				}
				if len(balances) == 0 {
					return "no balances", nil
				}
				symbols := make([]string, 0, len(balances))
				for s := range balances {
					symbols = append(symbols, s)
				}
				sort.Strings(symbols)
				var b strings.Builder
				for _, s := range symbols {
					fmt.Fprintf(&b, "%-8s %s (%s base units)\n",
						s, reg.FormatAmount(s, balances[s]), balances[s])
				}
				return strings.TrimRight(b.String(), "\n"), nil
			},
		},
		{
			title: "New address",
			run: func(ctx context.Context, svc walletService, _ *assets.Registry, _ []string) (string, error) {
				address, err := svc.CreateAddress(ctx)
				if err != nil {
					return "", err
				}
				return prettyJSON(address), nil
			},
		},
		{
			title: "Gasless transfer",
			fields: []field{
				{label: "Wallet ID", placeholder: "wallet id of the stored wallet"},
				{label: "Recipient address", placeholder: "0x..."},
				{label: "Amount (base units)", placeholder: "1000000"},
				{label: "Asset", placeholder: "USDC"},
			},
			run: func(ctx context.Context, svc walletService, _ *assets.Registry, values []string) (string, error) {
				result, err := svc.ExecuteGaslessTransfer(ctx, &model.GaslessTransferRequest{
					WalletID:  values[0],
					ToAddress: values[1],
					Amount:    values[2],
					Asset:     values[3],
				})
				if err != nil {
					return "", err
				}
				return prettyJSON(result), nil
			},
		},
		{
			title:  "Register webhook",
			fields: []field{{label: "Callback URL", placeholder: "https://example.com/hook"}},
			run: func(ctx context.Context, svc walletService, _ *assets.Registry, values []string) (string, error) {
				registration, err := svc.CreateWebhook(ctx, values[0])
				if err != nil {
					return "", err
				}
				return prettyJSON(registration), nil
			},
		},
	}
}

func prettyJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case opDone:
		m.state = stateResult
		m.result = msg.body
		m.resultErr = msg.err
		return m, nil
	}

	if m.state == stateInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.ops)-1 {
				m.cursor++
			}
		case "enter":
			op := m.ops[m.cursor]
			if len(op.fields) == 0 {
				m.state = stateRunning
				return m, tea.Batch(m.spinner.Tick, m.runOp(op, nil))
			}
			m.state = stateInput
			m.values = make([]string, 0, len(op.fields))
			m.fieldIdx = 0
			m.prepareInput(op.fields[0])
			return m, textinput.Blink
		}

	case stateInput:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.state = stateMenu
			return m, nil
		case "enter":
			op := m.ops[m.cursor]
			m.values = append(m.values, strings.TrimSpace(m.input.Value()))
			m.fieldIdx++
			if m.fieldIdx < len(op.fields) {
				m.prepareInput(op.fields[m.fieldIdx])
				return m, textinput.Blink
			}
			m.state = stateRunning
			return m, tea.Batch(m.spinner.Tick, m.runOp(op, m.values))
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

	case stateRunning:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case stateResult:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		default:
			m.state = stateMenu
		}
	}
	return m, nil
}

func (m *Model) prepareInput(f field) {
	m.input.Reset()
	m.input.Placeholder = f.placeholder
	m.input.Focus()
}

func (m Model) runOp(op operation, values []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		body, err := op.run(ctx, m.svc, m.registry, values)
		return opDone{body: body, err: err}
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("MPC Wallet Dashboard"))
	b.WriteString("\n")

	switch m.state {
	case stateMenu:
		b.WriteString(dimStyle.Render(storedWalletLine(m.svc)))
		b.WriteString("\n\n")
		for i, op := range m.ops {
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("> " + op.title))
			} else {
				b.WriteString("  " + op.title)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("up/down: select  enter: run  q: quit"))

	case stateInput:
		op := m.ops[m.cursor]
		b.WriteString(op.title + "\n\n")
		b.WriteString(op.fields[m.fieldIdx].label + ":\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("enter: next  esc: back"))

	case stateRunning:
		b.WriteString(fmt.Sprintf("%s %s...", m.spinner.View(), m.ops[m.cursor].title))

	case stateResult:
		b.WriteString(m.ops[m.cursor].title + "\n\n")
		if m.resultErr != nil {
			b.WriteString(errorStyle.Render("Error: " + m.resultErr.Error()))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("any key: menu  q: quit"))
	}

	b.WriteString("\n")
	return b.String()
}

// Run starts the dashboard program.
func Run(svc walletService, registry *assets.Registry) error {
	program := tea.NewProgram(NewModel(svc, registry), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
