package instructions

import (
	"go.trai.ch/testforge/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var defaultLines = map[domain.Stage][]string{
	domain.StageGenerated: {
		"You are an expert C++ engineer writing unit tests with GoogleTest.",
		"Write a complete test file for the source file below.",
		"Include every header the tests need, including <gtest/gtest.h> and the header under test.",
		"Cover normal behaviour, boundary values and error paths of every public function.",
		"Do not define a main function; the tests are linked against gtest_main.",
		"Do not redefine any function or type from the source file.",
	},
	domain.StageRefined: {
		"You are reviewing a GoogleTest file generated for the source code below.",
		"Remove duplicated tests and tests that cannot compile against the source.",
		"Add missing edge cases and make assertions precise.",
		"Keep the includes correct and do not define a main function.",
	},
	domain.StageFixed: {
		"The GoogleTest file below failed to build or run.",
		"Use the build error log to fix the test file so that it compiles and passes.",
		"Only change the test code; the source code under test must not be modified.",
		"Remove tests that rely on behaviour the source does not provide.",
	},
}

// Default returns the built-in instruction lines for stage.
func Default(stage domain.Stage) []string {
	return append([]string(nil), defaultLines[stage]...)
}

// Render encodes lines as an instruction template document.
func Render(lines []string) ([]byte, error) {
	out, err := yaml.Marshal(Template{Instructions: lines})
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode instruction template")
	}
	return out, nil
}
