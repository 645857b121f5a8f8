package noticeproc

import (
	"strings"
	"testing"
)

func TestExtractTextBasic(t *testing.T) {
	page := `<html><body>
		<nav class="topnav"><ul><li>Home</li><li>Trains</li></ul></nav>
		<main>
			<p>Train 12137 Punjab Mail is delayed by 30 minutes.</p>
			<p>It will now arrive on platform <sup>[1]</sup> 4.</p>
		</main>
		<footer><p>Copyright Indian Railways</p></footer>
	</body></html>`

	info, err := ExtractText(strings.NewReader(page))
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}

	if !strings.Contains(info.Text, "Punjab Mail is delayed by 30 minutes") {
		t.Errorf("missing notice body: %q", info.Text)
	}
	if strings.Contains(info.Text, "Copyright") {
		t.Errorf("footer leaked into notice text: %q", info.Text)
	}
	if strings.Contains(info.Text, "Home") {
		t.Errorf("navigation leaked into notice text: %q", info.Text)
	}
	if strings.Contains(info.Text, "[1]") {
		t.Errorf("citation superscript not stripped: %q", info.Text)
	}
	if !info.IsReliable {
		t.Error("a full notice should be flagged reliable")
	}
}

func TestExtractTextListItems(t *testing.T) {
	page := `<html><body><div id="content">
		<ul>
			<li>12137 delayed 30 min</li>
			<li>19024 cancelled</li>
		</ul>
	</div></body></html>`

	info, err := ExtractText(strings.NewReader(page))
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if !strings.Contains(info.Text, "12137 delayed 30 min") {
		t.Errorf("missing first list item: %q", info.Text)
	}
	if !strings.Contains(info.Text, "19024 cancelled") {
		t.Errorf("missing second list item: %q", info.Text)
	}
}

func TestExtractTextTableCells(t *testing.T) {
	page := `<html><body>
		<table><tr><td>12137</td><td>Punjab Mail</td><td>PF 4</td></tr></table>
	</body></html>`

	info, err := ExtractText(strings.NewReader(page))
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	for _, want := range []string{"12137", "Punjab Mail", "PF 4"} {
		if !strings.Contains(info.Text, want) {
			t.Errorf("missing cell %q in %q", want, info.Text)
		}
	}
}

func TestExtractTextEmptyPage(t *testing.T) {
	info, err := ExtractText(strings.NewReader("<html><body></body></html>"))
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if info.Text != "" {
		t.Errorf("Text = %q, want empty", info.Text)
	}
	if info.IsReliable {
		t.Error("empty page must not be flagged reliable")
	}
}

func TestExtractTextCollapsesWhitespace(t *testing.T) {
	page := "<html><body><p>Train\n\t 12137   arriving</p></body></html>"
	info, err := ExtractText(strings.NewReader(page))
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if info.Text != "Train 12137 arriving" {
		t.Errorf("Text = %q, want collapsed whitespace", info.Text)
	}
}
