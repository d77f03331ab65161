package lang

func init() {
	Register(&Spec{
		Language:          Go,
		FileExtensions:    []string{".go"},
		FunctionNodeTypes: []string{"function_declaration", "method_declaration", "func_literal"},
		ClassNodeTypes:    []string{"type_spec", "type_alias"},
		ModuleNodeTypes:   []string{"source_file"},
		CallNodeTypes:     []string{"call_expression"},
		ImportNodeTypes:   []string{"import_declaration"},

		CommentNodeTypes: []string{"comment"},
		StringNodeTypes:  []string{"interpreted_string_literal", "raw_string_literal", "rune_literal"},

		IdentifierNodeTypes: []string{"identifier", "field_identifier", "type_identifier", "package_identifier"},

		ModifierNodeTypes: []string{}, // Go has no declaration-site modifier keywords

		PackageIndicators: []string{"go.mod"},
		EntryPoints:       []string{"main", "init"},

		BuiltinReceivers: map[string]bool{
			"fmt.Println": true, "fmt.Printf": true, "fmt.Sprintf": true, "fmt.Errorf": true,
			"strings.Join": true, "strings.Split": true, "strings.TrimSpace": true,
			"json.Marshal": true, "json.Unmarshal": true,
			"errors.New": true, "errors.Is": true, "errors.As": true,
			"os.Getenv": true, "os.Exit": true,
			"append": true, "len": true, "cap": true, "make": true, "new": true, "panic": true, "recover": true,
		},

		TestCallNames: []string{}, // Go tests are named Test*, not call-detected
	})
}
