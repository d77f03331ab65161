package lang

func init() {
	Register(&Spec{
		Language:       TypeScript,
		FileExtensions: []string{".ts", ".tsx"},
		FunctionNodeTypes: []string{
			"function_declaration",
			"generator_function_declaration",
			"function_expression",
			"arrow_function",
			"method_definition",
			"function_signature",
			"method_signature",
		},
		ClassNodeTypes: []string{
			"class_declaration",
			"class",
			"abstract_class_declaration",
			"enum_declaration",
			"interface_declaration",
			"type_alias_declaration",
		},
		ModuleNodeTypes: []string{"program"},
		CallNodeTypes:   []string{"call_expression"},
		ImportNodeTypes: []string{"import_statement", "call_expression"},
		ExportNodeTypes: []string{"export_statement"},

		CommentNodeTypes:  []string{"comment"},
		StringNodeTypes:   []string{"string", "string_fragment"},
		TemplateExprTypes: []string{"template_substitution"},

		IdentifierNodeTypes: []string{"identifier", "property_identifier", "shorthand_property_identifier", "shorthand_property_identifier_pattern", "type_identifier"},

		ModifierNodeTypes: []string{"async", "static", "public", "private", "protected", "readonly", "abstract", "override", "get", "set"},

		PackageIndicators: []string{"package.json", "tsconfig.json"},
		EntryPoints:       []string{"main"},

		BuiltinReceivers: map[string]bool{
			"JSON.parse": true, "JSON.stringify": true,
			"Array.isArray": true, "Array.from": true,
			"Object.keys": true, "Object.values": true, "Object.entries": true, "Object.assign": true,
			"Math.floor": true, "Math.ceil": true, "Math.round": true,
			"console.log": true, "console.error": true, "console.warn": true,
			"path.join": true, "path.resolve": true, "path.dirname": true,
			"map": true, "filter": true, "reduce": true, "forEach": true, "slice": true, "push": true,
			"then": true, "catch": true, "finally": true,
		},

		TestCallNames: []string{"it", "test", "describe", "beforeEach", "afterEach", "beforeAll", "afterAll"},
	})
}
