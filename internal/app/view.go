package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/reel/internal/detail"
	"github.com/llehouerou/reel/internal/extractor"
	"github.com/llehouerou/reel/internal/keymap"
	"github.com/llehouerou/reel/internal/tabs"
	"github.com/llehouerou/reel/internal/ui/render"
	"github.com/llehouerou/reel/internal/ui/styles"
)

const descriptionLines = 12

// Comment content is not extracted; the tab only marks that the service
// supports comments.
const commentsPlaceholder = "Comments are not loaded in this client"

// View implements tea.Model.
func (m Model) View() string {
	var body string
	if m.Screen == ScreenChannel {
		body = m.renderChannel()
	} else {
		body = m.renderDetail()
	}

	parts := []string{body}
	if bar := m.renderPlayerBar(); bar != "" {
		parts = append(parts, bar)
	}
	parts = append(parts, m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderDetail() string {
	s := styles.T().S()
	st := m.Detail.State()
	w := m.Width

	switch st.Status {
	case detail.StatusIdle:
		return s.Muted.Render("Nothing selected")
	case detail.StatusLoading:
		title := st.Title
		if title == "" {
			title = st.URL
		}
		return m.spinner.View() + " " + s.Muted.Render("Loading "+render.Truncate(title, w-12))
	case detail.StatusError:
		lines := []string{s.Error.Render(st.Message)}
		if st.Retryable() {
			lines = append(lines, s.Muted.Render("Press r to retry"))
		}
		return strings.Join(lines, "\n")
	case detail.StatusRestricted:
		return strings.Join([]string{
			s.Title.Render(render.Truncate(st.Info.Name, w)),
			s.Warning.Render(st.Message),
		}, "\n")
	}

	info := st.Info
	lines := []string{
		s.Title.Render(render.Truncate(info.Name, w)),
		s.Meta.Render(render.Truncate(m.metaLine(info), w)),
	}
	if m.Detail.TabsVisible() {
		lines = append(lines, m.renderTabs())
	}
	lines = append(lines, render.Separator(w))
	lines = append(lines, m.renderTab(info)...)
	return strings.Join(lines, "\n")
}

func (m Model) metaLine(info *extractor.StreamInfo) string {
	length := render.Duration(info.Duration)
	if info.Type.IsLive() {
		length = "LIVE"
	}
	var likes string
	if c := render.Count(info.LikeCount); c != "" {
		likes = c + " likes"
	}
	return render.Join(
		info.Uploader,
		render.Views(info.ViewCount),
		likes,
		render.Age(info.UploadDate, m.Now()),
		length,
	)
}

func (m Model) renderTabs() string {
	s := styles.T().S()
	selected := m.Detail.SelectedTab()
	labels := make([]string, 0, len(m.Detail.Tabs()))
	for _, t := range m.Detail.Tabs() {
		if t == selected {
			labels = append(labels, s.TabActive.Render(t.Label()))
		} else {
			labels = append(labels, s.Tab.Render(t.Label()))
		}
	}
	return render.Fit(lipgloss.JoinHorizontal(lipgloss.Top, labels...), m.Width)
}

func (m Model) renderTab(info *extractor.StreamInfo) []string {
	s := styles.T().S()
	switch m.Detail.SelectedTab() {
	case tabs.Description:
		lines := render.Wrap(info.Description, m.Width, descriptionLines)
		if len(info.Tags) > 0 {
			lines = append(lines, s.Subtle.Render(render.Truncate("#"+strings.Join(info.Tags, " #"), m.Width)))
		}
		return lines
	case tabs.Related:
		lines := make([]string, 0, len(info.Related))
		for i, r := range info.Related {
			line := render.Row(render.Truncate(r.Title, m.Width-10), s.Muted.Render(render.Duration(r.Duration)), m.Width)
			if i == m.RelatedCursor {
				line = s.Cursor.Render(line)
			}
			lines = append(lines, line)
		}
		if len(lines) == 0 {
			lines = append(lines, s.Muted.Render("No related streams"))
		}
		return lines
	case tabs.Comments:
		return []string{s.Muted.Render(commentsPlaceholder)}
	default:
		return []string{s.Muted.Render("Nothing to show")}
	}
}

func (m Model) renderChannel() string {
	s := styles.T().S()
	st := m.Channel.State()
	w := m.Width

	switch st.Status {
	case detail.StatusIdle:
		return s.Muted.Render("No channel")
	case detail.StatusLoading:
		return m.spinner.View() + " " + s.Muted.Render("Loading "+render.Truncate(st.Name, w-12))
	case detail.StatusError:
		lines := []string{s.Error.Render(st.Message)}
		if st.Retryable() {
			lines = append(lines, s.Muted.Render("Press r to retry"))
		}
		return strings.Join(lines, "\n")
	}

	info := st.Info
	var subs string
	if c := render.Count(info.SubscriberCount); c != "" {
		subs = c + " subscribers"
	}
	lines := []string{
		s.Title.Render(render.Truncate(info.Name, w)),
		s.Meta.Render(subs),
	}
	if len(st.Tabs) > 0 {
		labels := make([]string, 0, len(st.Tabs))
		for _, t := range st.Tabs {
			labels = append(labels, s.Tab.Render(t))
		}
		lines = append(lines, render.Fit(lipgloss.JoinHorizontal(lipgloss.Top, labels...), w))
	}
	lines = append(lines, render.Separator(w))
	lines = append(lines, render.Wrap(info.Description, w, descriptionLines)...)
	return strings.Join(lines, "\n")
}

func (m Model) renderPlayerBar() string {
	if m.Engine == nil || m.Engine.IsStopped() {
		if msg := m.Detail.PlayerError(); msg != "" {
			return styles.T().S().Error.Render(msg)
		}
		return ""
	}
	s := styles.T().S()
	q := m.Engine.Queue()
	item := q.Item()
	if item == nil {
		return ""
	}

	icon := "▶"
	if !m.Engine.IsPlaying() {
		icon = "⏸"
	}
	left := s.Playing.Render(icon) + " " + render.Truncate(item.Title, m.Width-24)
	right := render.Duration(m.Elapsed)
	if d := render.Duration(item.Duration); d != "" {
		right += " / " + d
	}
	if q.Len() > 1 {
		right += fmt.Sprintf("  %d/%d", q.Index()+1, q.Len())
	}
	inner := max(m.Width-2, 1)
	bar := render.Row(left, s.Muted.Render(right), inner)
	if msg := m.Detail.PlayerError(); msg != "" {
		bar += "\n" + s.Error.Render(msg)
	}
	return styles.PanelStyle(m.Detail.Fullscreen()).Width(inner).Render(bar)
}

func (m Model) renderHelp() string {
	context := "detail"
	if m.Screen == ScreenChannel {
		context = "channel"
	}
	return m.help.View(keymap.HelpFor(context))
}
