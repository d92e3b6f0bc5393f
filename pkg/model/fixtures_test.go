package model

import (
	"net/url"
	"time"
)

// 测试共用的模型定义与注册。

type Book struct {
	ID     int64
	Name   string
	Page   int64
	Price  float64
	Sale   bool
	Out    time.Time
	Home   *url.URL
	Desc   string
	Tags   []any
	Attrs  map[string]any
	Author *Author
	Secret string
}

func (b *Book) RecordType() string { return "Book" }

type Author struct {
	Name string
}

func (a *Author) RecordType() string { return "Author" }

type Node struct {
	Name string
	Next *Node
}

func (n *Node) RecordType() string { return "Node" }

type BaseShape struct {
	Area float64
}

func (s *BaseShape) RecordType() string { return "Shape" }

type Circle struct {
	Radius float64
}

func (c *Circle) RecordType() string { return "Circle" }

type Canvas struct {
	Shapes []any
}

func (c *Canvas) RecordType() string { return "Canvas" }

type Profile struct {
	Name  string
	Mail  string
	Token string
}

func (p *Profile) RecordType() string { return "Profile" }

type Account struct {
	Name string
	Age  int64
}

func (a *Account) RecordType() string { return "Account" }

func init() {
	MustRegister(Declaration{
		TypeName: "Author",
		New:      func() Record { return &Author{} },
		Fields: []Field{
			{
				Name: "name",
				Kind: StringKind(),
				Get:  Getter(func(a *Author) string { return a.Name }),
				Set:  Setter(func(a *Author, v string) { a.Name = v }),
			},
		},
	})

	MustRegister(Declaration{
		TypeName: "Book",
		New:      func() Record { return &Book{} },
		Fields: []Field{
			{
				Name: "id",
				Keys: []string{"id", "ID", "book_id"},
				Kind: IntKind(),
				Get:  Getter(func(b *Book) int64 { return b.ID }),
				Set:  Setter(func(b *Book, v int64) { b.ID = v }),
			},
			{
				Name: "name",
				Kind: StringKind(),
				Get:  Getter(func(b *Book) string { return b.Name }),
				Set:  Setter(func(b *Book, v string) { b.Name = v }),
			},
			{
				Name: "page",
				Kind: IntKind(),
				Get:  Getter(func(b *Book) int64 { return b.Page }),
				Set:  Setter(func(b *Book, v int64) { b.Page = v }),
			},
			{
				Name: "price",
				Kind: FloatKind(),
				Get:  Getter(func(b *Book) float64 { return b.Price }),
				Set:  Setter(func(b *Book, v float64) { b.Price = v }),
			},
			{
				Name: "sale",
				Kind: BoolKind(),
				Get:  Getter(func(b *Book) bool { return b.Sale }),
				Set:  Setter(func(b *Book, v bool) { b.Sale = v }),
			},
			{
				Name: "out",
				Kind: DateKind(),
				Get:  Getter(func(b *Book) time.Time { return b.Out }),
				Set:  Setter(func(b *Book, v time.Time) { b.Out = v }),
			},
			{
				Name: "home",
				Kind: URLKind(),
				Get: OptionalGetter(func(b *Book) (*url.URL, bool) {
					return b.Home, b.Home != nil
				}),
				Set: Setter(func(b *Book, v *url.URL) { b.Home = v }),
			},
			{
				Name: "desc",
				Keys: []string{"desc", "ext.desc"},
				Kind: StringKind(),
				Get:  Getter(func(b *Book) string { return b.Desc }),
				Set:  Setter(func(b *Book, v string) { b.Desc = v }),
			},
			{
				Name: "tags",
				Kind: ArrayKind(StringKind()),
				Get: OptionalGetter(func(b *Book) ([]any, bool) {
					return b.Tags, b.Tags != nil
				}),
				Set: Setter(func(b *Book, v []any) { b.Tags = v }),
			},
			{
				Name: "attrs",
				Kind: MapKind(IntKind()),
				Get: OptionalGetter(func(b *Book) (map[string]any, bool) {
					return b.Attrs, b.Attrs != nil
				}),
				Set: Setter(func(b *Book, v map[string]any) { b.Attrs = v }),
			},
			{
				Name: "author",
				Kind: RecordKind("Author"),
				Get: OptionalGetter(func(b *Book) (Record, bool) {
					if b.Author == nil {
						return nil, false
					}
					return b.Author, true
				}),
				Set: Setter(func(b *Book, v *Author) { b.Author = v }),
			},
			{
				Name: "secret",
				Kind: StringKind(),
				Get:  Getter(func(b *Book) string { return b.Secret }),
				Set:  Setter(func(b *Book, v string) { b.Secret = v }),
			},
		},
		Blacklist: []string{"secret"},
	})

	MustRegister(Declaration{
		TypeName: "Node",
		New:      func() Record { return &Node{} },
		Fields: []Field{
			{
				Name: "name",
				Kind: StringKind(),
				Get:  Getter(func(n *Node) string { return n.Name }),
				Set:  Setter(func(n *Node, v string) { n.Name = v }),
			},
			{
				Name: "next",
				Kind: RecordKind("Node"),
				Get: OptionalGetter(func(n *Node) (Record, bool) {
					if n.Next == nil {
						return nil, false
					}
					return n.Next, true
				}),
				Set: Setter(func(n *Node, v *Node) { n.Next = v }),
			},
		},
	})

	MustRegister(Declaration{
		TypeName: "Shape",
		New:      func() Record { return &BaseShape{} },
		ClassSelector: func(obj *Object) string {
			if obj.Has("radius") {
				return "Circle"
			}
			return ""
		},
		Fields: []Field{
			{
				Name: "area",
				Kind: FloatKind(),
				Get:  Getter(func(s *BaseShape) float64 { return s.Area }),
				Set:  Setter(func(s *BaseShape, v float64) { s.Area = v }),
			},
		},
	})

	MustRegister(Declaration{
		TypeName: "Circle",
		New:      func() Record { return &Circle{} },
		Fields: []Field{
			{
				Name: "radius",
				Kind: FloatKind(),
				Get:  Getter(func(c *Circle) float64 { return c.Radius }),
				Set:  Setter(func(c *Circle, v float64) { c.Radius = v }),
			},
		},
	})

	MustRegister(Declaration{
		TypeName: "Canvas",
		New:      func() Record { return &Canvas{} },
		Fields: []Field{
			{
				Name: "shapes",
				Kind: ArrayKind(RecordKind("Shape")),
				Get: OptionalGetter(func(c *Canvas) ([]any, bool) {
					return c.Shapes, c.Shapes != nil
				}),
				Set: Setter(func(c *Canvas, v []any) { c.Shapes = v }),
			},
		},
	})

	// token 同时出现在黑白名单中，黑名单最终生效。
	MustRegister(Declaration{
		TypeName: "Profile",
		New:      func() Record { return &Profile{} },
		Fields: []Field{
			{
				Name: "name",
				Kind: StringKind(),
				Get:  Getter(func(p *Profile) string { return p.Name }),
				Set:  Setter(func(p *Profile, v string) { p.Name = v }),
			},
			{
				Name: "mail",
				Kind: StringKind(),
				Get:  Getter(func(p *Profile) string { return p.Mail }),
				Set:  Setter(func(p *Profile, v string) { p.Mail = v }),
			},
			{
				Name: "token",
				Kind: StringKind(),
				Get:  Getter(func(p *Profile) string { return p.Token }),
				Set:  Setter(func(p *Profile, v string) { p.Token = v }),
			},
		},
		Whitelist: []string{"name", "token"},
		Blacklist: []string{"token"},
	})

	MustRegister(Declaration{
		TypeName: "Account",
		New:      func() Record { return &Account{} },
		Fields: []Field{
			{
				Name: "name",
				Kind: StringKind(),
				Get:  Getter(func(a *Account) string { return a.Name }),
				Set:  Setter(func(a *Account, v string) { a.Name = v }),
			},
			{
				Name: "age",
				Kind: IntKind(),
				Get:  Getter(func(a *Account) int64 { return a.Age }),
				Set:  Setter(func(a *Account, v int64) { a.Age = v }),
			},
		},
		PreDecode: func(obj *Object) (*Object, bool) {
			if v, ok := obj.Get("drop"); ok {
				if b, _ := v.Bool(); b {
					return nil, false
				}
			}
			// 输入允许包一层 data。
			if v, ok := obj.Get("data"); ok {
				if inner, ok := v.Object(); ok {
					return inner, true
				}
			}
			return nil, true
		},
		PostDecode: func(rec Record) bool {
			return rec.(*Account).Age >= 0
		},
		PostEncode: func(rec Record, obj *Object) (*Object, bool) {
			if rec.(*Account).Name == "hidden" {
				return nil, false
			}
			obj.Set("kind", NewString("account"))
			return obj, true
		},
	})
}

func mustURL(s string) *url.URL {
	u, err := url.Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

func sampleBook() *Book {
	return &Book{
		ID:    7,
		Name:  "Harry Potter",
		Page:  256,
		Price: 59.5,
		Sale:  true,
		Out:   time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		Home:  mustURL("https://example.com/hp"),
		Desc:  "fantasy",
		Tags:  []any{"magic", "novel"},
		Attrs: map[string]any{"stock": int64(12), "rank": int64(3)},
		Author: &Author{
			Name: "J. K. Rowling",
		},
		Secret: "do-not-ship",
	}
}
