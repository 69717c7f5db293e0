package condition

import "strings"

// Внутреннее дерево выражений грамматики условий кастодиана.
// Узлы типизированы, текст порождается только в render — так дедупликация,
// скобки и детерминизм проверяются независимо от конкатенации строк.

type expr interface {
	render(b *strings.Builder)
}

// lit — готовый фрагмент: число, вызов вида instructions.count()
type lit string

func (l lit) render(b *strings.Builder) { b.WriteString(string(l)) }

// str — строковый литерал в одинарных кавычках
type str string

func (s str) render(b *strings.Builder) {
	b.WriteByte('\'')
	b.WriteString(escape(string(s)))
	b.WriteByte('\'')
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// cmp — бинарное сравнение
type cmp struct {
	left  expr
	op    string
	right expr
}

func (c cmp) render(b *strings.Builder) {
	c.left.render(b)
	b.WriteString(" " + c.op + " ")
	c.right.render(b)
}

// member — проверка принадлежности списку: x in ['a', 'b']
type member struct {
	left  expr
	items []string
}

func (m member) render(b *strings.Builder) {
	m.left.render(b)
	b.WriteString(" in [")
	for i, it := range m.items {
		if i > 0 {
			b.WriteString(", ")
		}
		str(it).render(b)
	}
	b.WriteByte(']')
}

// quant — квантор по коллекции: transfers.any(t, pred)
type quant struct {
	recv string // transfers, instructions
	fn   string // any, all
	v    string // имя связанной переменной
	pred expr
}

func (q quant) render(b *strings.Builder) {
	b.WriteString(q.recv + "." + q.fn + "(" + q.v + ", ")
	q.pred.render(b)
	b.WriteByte(')')
}

// junction — конъюнкция/дизъюнкция без скобок
type junction struct {
	op    string // && или ||
	items []expr
}

func (j junction) render(b *strings.Builder) {
	for i, it := range j.items {
		if i > 0 {
			b.WriteString(" " + j.op + " ")
		}
		it.render(b)
	}
}

// group — явные скобки вокруг подвыражения
type group struct {
	e expr
}

func (g group) render(b *strings.Builder) {
	b.WriteByte('(')
	g.e.render(b)
	b.WriteByte(')')
}

func and(items ...expr) expr { return junction{op: "&&", items: items} }
func or(items ...expr) expr  { return junction{op: "||", items: items} }

func render(e expr) string {
	var b strings.Builder
	e.render(&b)
	return b.String()
}
