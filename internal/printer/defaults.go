package printer

// Defaults fills printer fields the configuration entry left unset.
// The manager applies them to its working copy before building an
// adapter, so stored records keep the gaps the operator wrote.
type Defaults struct {
	Codepage  string
	LineWidth int
	Timeout   float64
	Align     string
	Cut       string
}

// Apply fills the zero-valued fields of p from the defaults.
func (d Defaults) Apply(p *Printer) {
	if p.Codepage == "" {
		p.Codepage = d.Codepage
	}
	if p.LineWidth == 0 {
		p.LineWidth = d.LineWidth
	}
	if p.TimeoutSeconds == 0 {
		p.TimeoutSeconds = d.Timeout
	}
	if p.DefaultAlign == "" {
		p.DefaultAlign = d.Align
	}
	if p.DefaultCut == "" {
		p.DefaultCut = d.Cut
	}
}
