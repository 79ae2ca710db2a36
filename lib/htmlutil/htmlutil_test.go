package htmlutil

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const loginPage = `<!DOCTYPE html>
<html>
<head>
	<title>
		Superleme | Login
	</title>
	<style>body { color: red; }</style>
</head>
<body>
	<h1>Bem-vindo</h1>
	<div>
		<h2>Acesso <b>restrito</b></h2>
		<p>Entre com seu   usuário.</p>
		<script>var secret = 1;</script>
		<form action="/login" method="post">
			<input name="username">
		</form>
		<form></form>
		<h3>Ajuda</h3>
	</div>
</body>
</html>`

func TestInspect(t *testing.T) {
	doc, err := Parse(strings.NewReader(loginPage))
	if err != nil {
		t.Fatal(err)
	}
	page := Inspect(context.Background(), doc, "N/A")

	require.True(t, page.HasTitle)
	require.Equal(t, "Superleme | Login", page.Title)

	expectedHeadings := []Heading{
		{Tag: "h1", Text: "Bem-vindo"},
		{Tag: "h2", Text: "Acessorestrito"},
		{Tag: "h3", Text: "Ajuda"},
	}
	if diff := cmp.Diff(expectedHeadings, page.Headings); diff != "" {
		t.Fatalf("headings mismatch (-want +got):\n%s", diff)
	}

	require.True(t, page.HasBody)
	require.Equal(t, "Bem-vindo Acesso restrito Entre com seu   usuário. Ajuda", page.BodyText)

	expectedForms := []Form{
		{Action: "/login", Method: "post"},
		{Action: "N/A", Method: "N/A"},
	}
	if diff := cmp.Diff(expectedForms, page.Forms); diff != "" {
		t.Fatalf("forms mismatch (-want +got):\n%s", diff)
	}
}

func TestInspectWithoutTitle(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<p>no title here</p>`))
	if err != nil {
		t.Fatal(err)
	}
	page := Inspect(context.Background(), doc, "N/A")
	require.False(t, page.HasTitle)
	require.Empty(t, page.Title)
	require.Empty(t, page.Headings)
	require.Empty(t, page.Forms)
	require.Equal(t, "no title here", page.BodyText)
}

func TestPrettify(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<!DOCTYPE html><html><head><title>T</title></head><body><p class="a&b">Hi <b>x</b><br></p><!-- note --><script>if (a < b) {}</script></body></html>`))
	if err != nil {
		t.Fatal(err)
	}

	expected := `<!DOCTYPE html>
<html>
 <head>
  <title>
   T
  </title>
 </head>
 <body>
  <p class="a&amp;b">
   Hi
   <b>
    x
   </b>
   <br/>
  </p>
  <!-- note -->
  <script>
   if (a < b) {}
  </script>
 </body>
</html>
`
	require.Equal(t, expected, Prettify(doc.Nodes[0]))
}
