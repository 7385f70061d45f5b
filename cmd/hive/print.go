package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeanpaul/hive/internal/proc"
	"github.com/jeanpaul/hive/internal/session"
	"github.com/jeanpaul/hive/internal/swarm"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

func stateStyle(s proc.State) lipgloss.Style {
	switch s {
	case proc.StateCompleted:
		return okStyle
	case proc.StateFailed, proc.StateKilled:
		return failStyle
	default:
		return lipgloss.NewStyle()
	}
}

func printRunResult(res *proc.ExecResult) {
	if res.Backgrounded {
		fmt.Println(dimStyle.Render(res.Hint))
		fmt.Printf("id: %s\nlog: %s\n", res.ID, res.LogPath)
		return
	}
	fmt.Print(res.Output)
	if res.Truncated {
		fmt.Println(dimStyle.Render(fmt.Sprintf("(full output: %s)", res.LogPath)))
	}
}

func printRecordTable(records []proc.Record) {
	if len(records) == 0 {
		fmt.Println("no tracked processes")
		return
	}
	fmt.Println(headerStyle.Render(pad("ID", 36) + "  " + pad("STATE", 12) + "  " + pad("PID", 7) + "  COMMAND"))
	for _, r := range records {
		state := stateStyle(r.State).Render(pad(string(r.State), 12))
		cmd := strings.Join(r.Command, " ")
		if len(cmd) > 60 {
			cmd = cmd[:57] + "..."
		}
		fmt.Printf("%s  %s  %s  %s\n", pad(r.ID, 36), state, pad(fmt.Sprintf("%d", r.PID), 7), cmd)
	}
}

func printSessionTable(sessions []session.Session) {
	if len(sessions) == 0 {
		fmt.Println("no open sessions")
		return
	}
	fmt.Println(headerStyle.Render(pad("ID", 36) + "  " + pad("PID", 7) + "  " + pad("IDLE", 10) + "  COMMAND"))
	for _, s := range sessions {
		idle := time.Since(s.LastActivity).Round(time.Second)
		fmt.Printf("%s  %s  %s  %s\n", pad(s.ID, 36), pad(fmt.Sprintf("%d", s.PID), 7), pad(idle.String(), 10), strings.Join(s.Command, " "))
	}
}

func printSwarmReport(r *swarm.Report) {
	fmt.Println(headerStyle.Render(fmt.Sprintf("swarm: %d total, %s, %s in %s",
		r.Total,
		okStyle.Render(fmt.Sprintf("%d succeeded", r.Succeeded)),
		failStyle.Render(fmt.Sprintf("%d failed", r.Failed)),
		r.WallClock.Round(time.Millisecond))))
	for _, t := range r.PerTask {
		mark := okStyle.Render("ok")
		if t.Status != swarm.StatusSucceeded {
			mark = failStyle.Render("fail")
		}
		fmt.Printf("  [%d] %s %s (%dms)\n", t.Index, pad(t.Target, 24), mark, t.Duration)
		if t.Error != "" {
			fmt.Printf("      %s\n", dimStyle.Render(t.Error))
		}
	}
}

func pad(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}
