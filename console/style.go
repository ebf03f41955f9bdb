package console

import "github.com/charmbracelet/lipgloss"

type Tag int

const (
	Info Tag = iota
	Success
	Error
	Prompt
)

// 与原来的 rich 配色一致：success 绿、error 红、info 青、prompt 黄
var palette = map[Tag]lipgloss.Color{
	Success: lipgloss.Color("#10B981"),
	Error:   lipgloss.Color("#EF4444"),
	Info:    lipgloss.Color("#06B6D4"),
	Prompt:  lipgloss.Color("#F59E0B"),
}

const headerColor = lipgloss.Color("#D946EF")

// maxCellWidth 表格单元格最多显示的字符数
const maxCellWidth = 30

type styles struct {
	tags   map[Tag]lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	border lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	s := styles{tags: map[Tag]lipgloss.Style{}}
	for tag, c := range palette {
		s.tags[tag] = r.NewStyle().Foreground(c)
	}
	s.header = r.NewStyle().Foreground(headerColor).Bold(true).Padding(0, 1)
	s.cell = r.NewStyle().Padding(0, 1)
	s.border = r.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	return s
}
