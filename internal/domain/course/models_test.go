package course

import "testing"

func TestModuleTypeFromString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ModuleType
	}{
		{
			name: "page",
			in:   "page",
			want: ModulePage,
		},
		{
			name: "book",
			in:   "book",
			want: ModuleBook,
		},
		{
			name: "forum",
			in:   "forum",
			want: ModuleForum,
		},
		{
			name: "resource",
			in:   "resource",
			want: ModuleResource,
		},
		{
			name: "url",
			in:   "url",
			want: ModuleUrl,
		},
		{
			name: "unrecognised remote type",
			in:   "h5pactivity",
			want: ModuleUnknown,
		},
		{
			name: "empty",
			in:   "",
			want: ModuleUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ModuleTypeFromString(tt.in); got != tt.want {
				t.Errorf("ModuleTypeFromString() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNotFound_Error(t *testing.T) {
	e := NotFound{Kind: "course", ID: 42}
	want := "No course with id [42] in the local mirror"
	if got := e.Error(); got != want {
		t.Errorf("Error() = %v, want %v", got, want)
	}
}
