package vntext

import "testing"

func TestFoldDiacritics(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Phạm Văn Sử", "Pham Van Su"},
		{"Nguyễn Thị Hoa", "Nguyen Thi Hoa"},
		{"Đặng Đình Đức", "Dang Dinh Duc"},
		{"no diacritics", "no diacritics"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := FoldDiacritics(tc.in); got != tc.want {
			t.Errorf("FoldDiacritics(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFold(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Phạm  Văn   Sử", "pham van su"},
		{"  Trần Minh Đức ", "tran minh duc"},
		{"ÔNG SỬ", "ong su"},
	}
	for _, tc := range cases {
		if got := Fold(tc.in); got != tc.want {
			t.Errorf("Fold(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStripHonorifics(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"ong pham van su", "pham van su"},
		{"ba nguyen thi hoa", "nguyen thi hoa"},
		{"thuong tuong le van a", "le van a"},
		{"luat su tran minh duc", "tran minh duc"},
		// Stacked honorifics strip repeatedly.
		{"ong luat su tran minh duc", "tran minh duc"},
		// A bare honorific is not a name.
		{"ong", ""},
		{"pham van su", "pham van su"},
	}
	for _, tc := range cases {
		if got := StripHonorifics(tc.in); got != tc.want {
			t.Errorf("StripHonorifics(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNameKey(t *testing.T) {
	// Honorific-qualified and diacritic variants of one name share a key.
	key := NameKey("Phạm Văn Sử")
	variants := []string{"ông Phạm Văn Sử", "Pham Van Su", "PHẠM VĂN SỬ"}
	for _, v := range variants {
		if got := NameKey(v); got != key {
			t.Errorf("NameKey(%q) = %q, want %q", v, got, key)
		}
	}

	if NameKey("Nguyễn Thị Hoa") == key {
		t.Error("distinct names must not share a key")
	}
}

func TestInitials(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"pham van su", "pvs"},
		{"nguyen thi hoa", "nth"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Initials(tc.in); got != tc.want {
			t.Errorf("Initials(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsHonorific(t *testing.T) {
	if !IsHonorific("ong") {
		t.Error("ong should be an honorific")
	}
	if !IsHonorific("thuong tuong") {
		t.Error("thuong tuong should be an honorific")
	}
	if IsHonorific("pham") {
		t.Error("pham is not an honorific")
	}
}
