package el

// Tag constructors for the common HTML elements.

func Div(args ...Item) Item     { return El("div", args...) }
func Span(args ...Item) Item    { return El("span", args...) }
func P(args ...Item) Item       { return El("p", args...) }
func A(args ...Item) Item       { return El("a", args...) }
func H1(args ...Item) Item      { return El("h1", args...) }
func H2(args ...Item) Item      { return El("h2", args...) }
func H3(args ...Item) Item      { return El("h3", args...) }
func Ul(args ...Item) Item      { return El("ul", args...) }
func Ol(args ...Item) Item      { return El("ol", args...) }
func Li(args ...Item) Item      { return El("li", args...) }
func Button(args ...Item) Item  { return El("button", args...) }
func Input(args ...Item) Item   { return El("input", args...) }
func Label(args ...Item) Item   { return El("label", args...) }
func Form(args ...Item) Item    { return El("form", args...) }
func Table(args ...Item) Item   { return El("table", args...) }
func Tr(args ...Item) Item      { return El("tr", args...) }
func Td(args ...Item) Item      { return El("td", args...) }
func Th(args ...Item) Item      { return El("th", args...) }
func Section(args ...Item) Item { return El("section", args...) }
func Header(args ...Item) Item  { return El("header", args...) }
func Footer(args ...Item) Item  { return El("footer", args...) }
func Nav(args ...Item) Item     { return El("nav", args...) }
func Main(args ...Item) Item    { return El("main", args...) }
func Img(args ...Item) Item     { return El("img", args...) }
func Pre(args ...Item) Item     { return El("pre", args...) }
func Code(args ...Item) Item    { return El("code", args...) }
