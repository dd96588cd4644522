package sanitize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/testforge/internal/adapters/sanitize"
)

func TestFenceStripper_Sanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text passes through",
			in:   "TEST(A, B) {}\n",
			want: "TEST(A, B) {}",
		},
		{
			name: "bare fence",
			in:   "```\nTEST(A, B) {}\n```",
			want: "TEST(A, B) {}",
		},
		{
			name: "fence with language tag",
			in:   "```cpp\n#include <gtest/gtest.h>\n\nTEST(A, B) {}\n```\n",
			want: "#include <gtest/gtest.h>\n\nTEST(A, B) {}",
		},
		{
			name: "misspelled tag from the model",
			in:   "```ccp\nTEST(A, B) {}\n```",
			want: "TEST(A, B) {}",
		},
		{
			name: "surrounding whitespace",
			in:   "\n\n  ```c++\nint x;\n```  \n",
			want: "int x;",
		},
		{
			name: "unmatched opening fence passes through",
			in:   "```cpp\nTEST(A, B) {}",
			want: "```cpp\nTEST(A, B) {}",
		},
		{
			name: "prose before fence passes through",
			in:   "Here you go:\n```\nint x;\n```",
			want: "Here you go:\n```\nint x;\n```",
		},
		{
			name: "inner fences are kept",
			in:   "```\nconst char* s = R\"(```)\";\n```",
			want: "const char* s = R\"(```)\";",
		},
		{
			name: "single line fence passes through",
			in:   "```int x;```",
			want: "```int x;```",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "fence only",
			in:   "```\n```",
			want: "",
		},
	}

	s := sanitize.NewFenceStripper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Sanitize(tt.in))
		})
	}
}
