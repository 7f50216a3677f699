package moduleconfig

import "io"

// WriteTemplate writes a documented template of every module's
// configuration to w, in table order: a banner, then each module's
// name comment followed by its WriteTemplate callback. The first
// module whose callback fails stops the walk; everything written so
// far is left in w.
func WriteTemplate(table []Descriptor, w io.Writer) error {
	p := NewPrinter(w)
	p.write("##########################################\n")
	p.write("# Policy configuration file template     #\n")
	p.write("##########################################\n\n")

	for i := range table {
		m := &table[i]
		if m.WriteTemplate == nil {
			continue
		}
		p.Comment("%s configuration", m.Name)
		if err := m.WriteTemplate(p); err != nil {
			return err
		}
		p.Blank()
		if p.Err() != nil {
			return p.Err()
		}
	}
	return p.Err()
}

// WriteDefault writes every module's default configuration values to
// w, in table order, short-circuiting on the first module whose
// callback fails.
func WriteDefault(table []Descriptor, w io.Writer) error {
	p := NewPrinter(w)
	p.write("# Default configuration values\n")

	for i := range table {
		m := &table[i]
		if m.WriteDefault == nil {
			continue
		}
		if err := m.WriteDefault(p); err != nil {
			return err
		}
		p.Blank()
		if p.Err() != nil {
			return p.Err()
		}
	}
	return p.Err()
}
