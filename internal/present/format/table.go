package format

// Table is the tabular view of a result.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

func (t Table) Empty() bool { return len(t.Rows) == 0 }
