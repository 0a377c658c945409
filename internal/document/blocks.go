package document

// Block is one render unit. The set of variants is closed: TitlePage,
// TableOfContents, KeyValueTable, PersonnelTable, NarrativeSection and
// PageBreak. Renderers switch on the concrete type.
type Block interface {
	// Kind names the variant, e.g. "title_page". Used in JSON and logs.
	Kind() string
	block()
}

// TitlePage is the cover: title, subtitle and the generation date line.
type TitlePage struct {
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	Generated string `json:"generated"`
}

// TableOfContents is the outline page.
type TableOfContents struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// KeyValue is one labelled row of a KeyValueTable.
type KeyValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// KeyValueTable is a headed two-column table of labels and values.
type KeyValueTable struct {
	Title string     `json:"title"`
	Rows  []KeyValue `json:"rows"`
}

// PersonnelTable is the audit team table. Rows[0] is the header row.
type PersonnelTable struct {
	Title string     `json:"title"`
	Rows  [][]string `json:"rows"`
}

// Header returns the first row, or nil for an empty table.
func (t PersonnelTable) Header() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// NarrativeSection is a heading followed by body paragraphs. An empty title
// renders paragraphs only.
type NarrativeSection struct {
	Section
}

// PageBreak forces the next block onto a new page.
type PageBreak struct{}

func (TitlePage) Kind() string        { return "title_page" }
func (TableOfContents) Kind() string  { return "table_of_contents" }
func (KeyValueTable) Kind() string    { return "key_value_table" }
func (PersonnelTable) Kind() string   { return "personnel_table" }
func (NarrativeSection) Kind() string { return "narrative_section" }
func (PageBreak) Kind() string        { return "page_break" }

func (TitlePage) block()        {}
func (TableOfContents) block()  {}
func (KeyValueTable) block()    {}
func (PersonnelTable) block()   {}
func (NarrativeSection) block() {}
func (PageBreak) block()        {}
