package cmd

import (
	"fmt"
	"io"
)

// tableProgress tracks one table of an export.
type tableProgress struct {
	total   int
	done    int
	printed int
	step    int
}

// progressPrinter writes export progress lines, roughly every twentieth of a
// table and never more than every thousand rows.
type progressPrinter struct {
	out    io.Writer
	tables map[string]*tableProgress
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{out: out, tables: make(map[string]*tableProgress)}
}

func (p *progressPrinter) StartTable(table string, total int) {
	total = max(total, 0)
	p.tables[table] = &tableProgress{total: total, step: progressStep(total)}
	fmt.Fprintf(p.out, "exporting %s (%d rows)\n", table, total)
}

func (p *progressPrinter) Increment(table string, delta int) {
	tp, ok := p.tables[table]
	if !ok || delta <= 0 {
		return
	}
	tp.done += delta
	if tp.printed == 0 || tp.done == tp.total || tp.done-tp.printed >= tp.step {
		p.line(table, tp)
	}
}

func (p *progressPrinter) FinishTable(table string) {
	tp, ok := p.tables[table]
	if !ok {
		return
	}
	delete(p.tables, table)
	if tp.done != tp.printed {
		p.line(table, tp)
	}
	if tp.total > 0 {
		fmt.Fprintf(p.out, "exported %s: %d/%d rows\n", table, tp.done, tp.total)
		return
	}
	fmt.Fprintf(p.out, "exported %s: %d rows\n", table, tp.done)
}

func (p *progressPrinter) line(table string, tp *tableProgress) {
	tp.printed = tp.done
	if tp.total > 0 {
		fmt.Fprintf(p.out, "progress %s: %d/%d\n", table, tp.done, tp.total)
		return
	}
	fmt.Fprintf(p.out, "progress %s: %d rows\n", table, tp.done)
}

func progressStep(total int) int {
	if total <= 0 {
		return 1000
	}
	return min(max(total/20, 1), 1000)
}
