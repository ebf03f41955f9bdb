package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"
)

// ErrClosed 输入流结束（Ctrl-D 或脚本读完）
var ErrClosed = errors.New("input closed")

// Console 终端读写；所有面向用户的输出都从这里走
type Console struct {
	in  *bufio.Reader
	src io.Reader
	out io.Writer
	st  styles
}

func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:  bufio.NewReader(in),
		src: in,
		out: out,
		st:  newStyles(lipgloss.NewRenderer(out)),
	}
}

func Std() *Console { return New(os.Stdin, os.Stdout) }

func (c *Console) Print(tag Tag, msg string) {
	fmt.Fprintln(c.out, c.st.tags[tag].Render(msg))
}

func (c *Console) Printf(tag Tag, format string, args ...any) {
	c.Print(tag, fmt.Sprintf(format, args...))
}

func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrClosed
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Prompt 打印 "msg: " 并读一行（保留用户输入的原样，只去掉换行）
func (c *Console) Prompt(tag Tag, msg string) (string, error) {
	fmt.Fprint(c.out, c.st.tags[tag].Render(msg+": "))
	return c.readLine()
}

// Choice 读一个编号，非数字时提示后重新读
func (c *Console) Choice(msg string) (int, error) {
	for {
		s, err := c.Prompt(Prompt, msg)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err == nil && n >= 0 {
			return n, nil
		}
		c.Print(Error, "Invalid input. Please enter a valid number!")
	}
}

// Password 终端下不回显；管道/测试输入时按普通行读取
func (c *Console) Password(msg string) (string, error) {
	if f, ok := c.src.(*os.File); ok && term.IsTerminal(int(f.Fd())) && c.in.Buffered() == 0 {
		fmt.Fprint(c.out, c.st.tags[Info].Render(msg+": "))
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(c.out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return c.Prompt(Info, msg)
}

// Confirm yes/y 视为同意
func (c *Console) Confirm(msg string) (bool, error) {
	s, err := c.Prompt(Prompt, msg+" Type (yes/no)")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y":
		return true, nil
	}
	return false, nil
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxCellWidth {
		return s
	}
	r := []rune(s)
	return string(r[:maxCellWidth-1]) + "…"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Table 渲染结果表；空值显示为空
func (c *Console) Table(columns []string, rows [][]string) {
	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = capitalize(col)
	}
	body := make([][]string, len(rows))
	for i, r := range rows {
		line := make([]string, len(r))
		for j, v := range r {
			line[j] = truncate(v)
		}
		body[i] = line
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(c.st.border).
		Headers(headers...).
		Rows(body...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return c.st.header
			}
			return c.st.cell
		})
	fmt.Fprintln(c.out, t.Render())
}
