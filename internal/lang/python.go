package lang

func init() {
	Register(&Spec{
		Language:          Python,
		FileExtensions:    []string{".py"},
		FunctionNodeTypes: []string{"function_definition", "lambda"},
		ClassNodeTypes:    []string{"class_definition"},
		ModuleNodeTypes:   []string{"module"},
		CallNodeTypes:     []string{"call"},
		ImportNodeTypes:   []string{"import_statement", "import_from_statement"},

		CommentNodeTypes: []string{"comment"},
		StringNodeTypes:  []string{"string", "string_content"},

		IdentifierNodeTypes: []string{"identifier"},

		ModifierNodeTypes: []string{"decorator"},

		PackageIndicators:  []string{"pyproject.toml", "setup.py", "requirements.txt"},
		EntryPoints:        []string{"__init__", "__call__", "__enter__", "__exit__", "main"},
		EntryPointIsDunder: true,

		BuiltinReceivers: map[string]bool{
			"json.dumps": true, "json.loads": true,
			"os.getenv": true, "os.environ": true,
			"str.join": true, "str.format": true, "str.split": true, "str.strip": true,
			"print": true, "len": true, "range": true, "isinstance": true, "super": true,
			"list.append": true, "dict.get": true, "dict.items": true,
		},

		TestCallNames: []string{"pytest.fixture", "pytest.mark"},
	})
}
