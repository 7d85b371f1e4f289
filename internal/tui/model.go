package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"auralife/internal/engine"
	"auralife/internal/ui"
)

// Service is the part of the engine the board drives.
type Service interface {
	Dashboard(ctx context.Context, p engine.ProfileKey, date time.Time) (*engine.Dashboard, error)
	CompleteHabit(ctx context.Context, p engine.ProfileKey, habitID int64, date time.Time) (engine.HabitResult, error)
	CompleteQuest(ctx context.Context, p engine.ProfileKey, questID int64) (engine.QuestResult, error)
}

type rowKind int

const (
	rowHabit rowKind = iota
	rowQuest
)

type row struct {
	kind rowKind
	id   int64
	done bool
}

type boardModel struct {
	ctx     context.Context
	svc     Service
	profile engine.ProfileKey
	now     func() time.Time

	width  int
	height int

	dash     *engine.Dashboard
	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	dash *engine.Dashboard
	err  error
}

type completedMsg struct {
	log string
	err error
}

func newBoardModel(ctx context.Context, svc Service, profile engine.ProfileKey) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		profile: profile,
		now:     time.Now,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		d, err := m.svc.Dashboard(m.ctx, m.profile, m.now())
		return loadedMsg{dash: d, err: err}
	}
}

func (m boardModel) completeHabitCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.CompleteHabit(m.ctx, m.profile, id, m.now())
		if err != nil {
			return completedMsg{err: err}
		}
		if !res.Applied {
			return completedMsg{log: "Already done today."}
		}
		log := fmt.Sprintf("%s %s: streak %d", ui.IconDone, res.Habit, res.Streak)
		return completedMsg{log: log + awardLog(res.Award, res.Unlocked)}
	}
}

func (m boardModel) completeQuestCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.CompleteQuest(m.ctx, m.profile, id)
		if err != nil {
			return completedMsg{err: err}
		}
		if !res.Applied {
			return completedMsg{log: "Quest already completed."}
		}
		log := fmt.Sprintf("%s %s", ui.IconQuest, res.Quest.Title)
		return completedMsg{log: log + awardLog(res.Award, res.Unlocked)}
	}
}

func awardLog(a engine.AwardResult, unlocked []engine.AchievementID) string {
	s := fmt.Sprintf(" | +%d XP", a.Amount)
	if a.LeveledUp {
		s += fmt.Sprintf(" | LEVEL UP %d → %d (%s)", a.LevelBefore, a.LevelAfter, a.Title)
	}
	for _, id := range unlocked {
		if def, ok := engine.LookupAchievement(id); ok {
			s += fmt.Sprintf(" | %s %s", def.Icon, def.Name)
		}
	}
	return s
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.dash = msg.dash
		if n := len(m.rows()); m.selected >= n {
			m.selected = max(n-1, 0)
		}
		if msg.dash.NewDailyQuests > 0 || msg.dash.NewBossQuest {
			m.lastLog = "New quests available."
		} else {
			m.lastLog = fmt.Sprintf("Refreshed at %s.", m.now().Format("15:04:05"))
		}
		return m, nil
	case completedMsg:
		if msg.err != nil {
			m.lastLog = "Complete failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = msg.log
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.rows())-1 {
				m.selected++
			}
			return m, nil
		case "enter", " ", "c":
			rows := m.rows()
			if m.selected < 0 || m.selected >= len(rows) {
				return m, nil
			}
			r := rows[m.selected]
			if r.done {
				m.lastLog = "Already done."
				return m, nil
			}
			m.lastLog = "Completing…"
			if r.kind == rowHabit {
				return m, m.completeHabitCmd(r.id)
			}
			return m, m.completeQuestCmd(r.id)
		}
	}
	return m, nil
}

// rows lists the selectable lines: habits first, then quests.
func (m boardModel) rows() []row {
	if m.dash == nil {
		return nil
	}
	out := make([]row, 0, len(m.dash.Habits)+len(m.dash.Quests))
	for _, h := range m.dash.Habits {
		out = append(out, row{kind: rowHabit, id: h.ID, done: h.DoneToday})
	}
	for _, q := range m.dash.Quests {
		out = append(out, row{kind: rowQuest, id: q.ID, done: q.Completed})
	}
	return out
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}
	if m.dash == nil {
		return "Aura: loading…\n"
	}

	leftW := 34
	if m.width > 0 && m.width/2 < leftW {
		leftW = max(m.width/2, 20)
	}
	sidebar := lipgloss.NewStyle().Width(leftW).Render(m.renderSidebar())
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, "  ", m.renderMain())

	return m.renderHeader() + "\n\n" + body + "\n" + m.renderFooter()
}

func (m boardModel) renderHeader() string {
	p := m.dash.Profile
	return fmt.Sprintf("%s | %s | Level %d | XP %d/%d %s",
		ui.Title.Render("Aura · "+p.Name),
		ui.Gold.Render(p.Title),
		p.Level, p.TotalXP, p.NextLevelXP,
		ui.ProgressBar(p.Progress, 24))
}

func (m boardModel) renderSidebar() string {
	lines := []string{ui.H2.Render("Skills")}
	for _, s := range m.dash.Skills {
		lines = append(lines, fmt.Sprintf("%s %-12s L%-2d %s", s.Icon, s.Label, s.Level, ui.ProgressBar(s.Progress, 8)))
	}
	unlocked := 0
	for _, a := range m.dash.Achievements {
		if a.Unlocked {
			unlocked++
		}
	}
	lines = append(lines, "", ui.LabelValue(ui.IconTrophy+" Achievements", fmt.Sprintf("%d/%d", unlocked, len(m.dash.Achievements))))
	lines = append(lines, "")
	lines = append(lines, ui.H2.Render("Keys"))
	lines = append(lines, "- ↑/↓ or j/k: move")
	lines = append(lines, "- enter/space: complete")
	lines = append(lines, "- r: refresh")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	var out []string
	i := 0
	cursor := func() string {
		defer func() { i++ }()
		if i == m.selected {
			return ui.SelectedRow.Render("> ")
		}
		return "  "
	}

	out = append(out, ui.H2.Render(ui.IconLoop+" Habits"))
	if len(m.dash.Habits) == 0 {
		out = append(out, ui.Muted.Render("  (none: aura habit add <name>)"))
	}
	for _, h := range m.dash.Habits {
		out = append(out, fmt.Sprintf("%s%s %s %s %s", cursor(), ui.Check(h.DoneToday), h.Icon, h.Name, ui.Warn.Render(fmt.Sprintf("%s%d", ui.IconFire, h.Streak))))
	}

	out = append(out, "", ui.H2.Render(ui.IconQuest+" Quests"))
	for _, q := range m.dash.Quests {
		icon := ui.Check(q.Completed)
		if q.Type == engine.QuestBoss && !q.Completed {
			icon = ui.IconBoss
		}
		out = append(out, fmt.Sprintf("%s%s %s %s %s", cursor(), icon, q.Title, ui.ProgressBar(float64(q.Percent)/100, 10), ui.Muted.Render(fmt.Sprintf("%d/%d +%dXP", q.Current, q.Target, q.XPReward))))
	}

	out = append(out, "", ui.H2.Render(ui.IconCoach+" Coach"))
	for _, t := range m.dash.Tips {
		out = append(out, "  "+t)
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}
