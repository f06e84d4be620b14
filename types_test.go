package galley

import (
	"errors"
	"testing"
)

func TestLayoutJobValidate(t *testing.T) {
	format := SimpleTextFormat(FontID{Size: 12, Family: FamilyProportional}, ColorWhite)

	tests := []struct {
		name     string
		job      LayoutJob
		wantFail bool
	}{
		{
			name: "single section covering text",
			job: LayoutJob{
				Text:     "hello",
				Sections: []Section{{Start: 0, End: 5, Format: format}},
			},
		},
		{
			name: "no sections",
			job:  LayoutJob{Text: "ignored"},
		},
		{
			name: "two contiguous sections",
			job: LayoutJob{
				Text: "hello",
				Sections: []Section{
					{Start: 0, End: 2, Format: format},
					{Start: 2, End: 5, Format: format},
				},
			},
		},
		{
			name: "gap between sections",
			job: LayoutJob{
				Text: "hello",
				Sections: []Section{
					{Start: 0, End: 2, Format: format},
					{Start: 3, End: 5, Format: format},
				},
			},
			wantFail: true,
		},
		{
			name: "overlapping sections",
			job: LayoutJob{
				Text: "hello",
				Sections: []Section{
					{Start: 0, End: 3, Format: format},
					{Start: 2, End: 5, Format: format},
				},
			},
			wantFail: true,
		},
		{
			name: "end past text",
			job: LayoutJob{
				Text:     "hi",
				Sections: []Section{{Start: 0, End: 5, Format: format}},
			},
			wantFail: true,
		},
		{
			name: "text not covered",
			job: LayoutJob{
				Text:     "hello",
				Sections: []Section{{Start: 0, End: 3, Format: format}},
			},
			wantFail: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.job.Validate()
			if tt.wantFail {
				var invalid *InvalidSectionsError
				if !errors.As(err, &invalid) {
					t.Fatalf("Validate() = %v, want InvalidSectionsError", err)
				}
			} else if err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestLayoutJobHash(t *testing.T) {
	id := FontID{Size: 14, Family: FamilyProportional}
	base := SimpleJob("hello world", id, ColorWhite, 100)

	t.Run("equal jobs hash equal", func(t *testing.T) {
		other := SimpleJob("hello world", id, ColorWhite, 100)
		if base.Hash() != other.Hash() {
			t.Error("identical jobs produced different hashes")
		}
	})

	changed := []struct {
		name string
		job  *LayoutJob
	}{
		{"text", SimpleJob("hello world!", id, ColorWhite, 100)},
		{"wrap width", SimpleJob("hello world", id, ColorWhite, 200)},
		{"color", SimpleJob("hello world", id, ColorBlack, 100)},
		{"size", SimpleJob("hello world", FontID{Size: 15, Family: FamilyProportional}, ColorWhite, 100)},
		{"family", SimpleJob("hello world", FontID{Size: 14, Family: FamilyMonospace}, ColorWhite, 100)},
	}
	for _, tt := range changed {
		t.Run(tt.name+" changes hash", func(t *testing.T) {
			if base.Hash() == tt.job.Hash() {
				t.Error("different jobs produced the same hash")
			}
		})
	}

	t.Run("halign changes hash", func(t *testing.T) {
		job := SimpleJob("hello world", id, ColorWhite, 100)
		job.Halign = AlignCenter
		if base.Hash() == job.Hash() {
			t.Error("halign not part of the hash")
		}
	})

	t.Run("underline changes hash", func(t *testing.T) {
		job := SimpleJob("hello world", id, ColorWhite, 100)
		job.Sections[0].Format.Underline = Stroke{Width: 1, Color: ColorWhite}
		if base.Hash() == job.Hash() {
			t.Error("underline not part of the hash")
		}
	})
}

func TestLayoutJobAppend(t *testing.T) {
	var job LayoutJob
	job.BreakOnNewline = true
	format := SimpleTextFormat(FontID{Size: 12, Family: FamilyProportional}, ColorWhite)

	job.Append("hello ", 0, format)
	job.Append("world", 0, format)

	if job.Text != "hello world" {
		t.Errorf("Text = %q, want %q", job.Text, "hello world")
	}
	if err := job.Validate(); err != nil {
		t.Errorf("Validate() = %v after Append", err)
	}
	if len(job.Sections) != 2 {
		t.Fatalf("len(Sections) = %d, want 2", len(job.Sections))
	}
	if job.Sections[1].Start != 6 || job.Sections[1].End != 11 {
		t.Errorf("second section = [%d, %d), want [6, 11)",
			job.Sections[1].Start, job.Sections[1].End)
	}
}

func TestAlignFactor(t *testing.T) {
	tests := []struct {
		align Align
		want  float32
	}{
		{AlignMin, 0},
		{AlignCenter, 0.5},
		{AlignMax, 1},
	}
	for _, tt := range tests {
		t.Run(tt.align.String(), func(t *testing.T) {
			if got := tt.align.Factor(); got != tt.want {
				t.Errorf("Factor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFontFamilyString(t *testing.T) {
	tests := []struct {
		family FontFamily
		want   string
	}{
		{FamilyProportional, "Proportional"},
		{FamilyMonospace, "Monospace"},
		{NamedFamily("emoji"), "emoji"},
	}
	for _, tt := range tests {
		if got := tt.family.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestFontIDConstructors(t *testing.T) {
	if id := Proportional(12); id.Family != FamilyProportional || id.Size != 12 {
		t.Errorf("Proportional(12) = %+v", id)
	}
	if id := Monospace(10); id.Family != FamilyMonospace || id.Size != 10 {
		t.Errorf("Monospace(10) = %+v", id)
	}
}
