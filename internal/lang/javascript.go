package lang

func init() {
	Register(&Spec{
		Language:       JavaScript,
		FileExtensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		FunctionNodeTypes: []string{
			"function_declaration",
			"generator_function_declaration",
			"function_expression",
			"arrow_function",
			"method_definition",
		},
		ClassNodeTypes:  []string{"class_declaration", "class"},
		ModuleNodeTypes: []string{"program"},
		CallNodeTypes:   []string{"call_expression"},
		ImportNodeTypes: []string{"import_statement", "call_expression"}, // require() is a call
		ExportNodeTypes: []string{"export_statement"},

		CommentNodeTypes:  []string{"comment"},
		StringNodeTypes:   []string{"string", "string_fragment"},
		TemplateExprTypes: []string{"template_substitution"},

		IdentifierNodeTypes: []string{"identifier", "property_identifier", "shorthand_property_identifier", "shorthand_property_identifier_pattern"},

		ModifierNodeTypes: []string{"async", "static", "get", "set"},

		PackageIndicators: []string{"package.json"},
		EntryPoints:       []string{"main"},

		BuiltinReceivers: map[string]bool{
			"JSON.parse": true, "JSON.stringify": true,
			"Array.isArray": true, "Array.from": true, "Array.of": true,
			"Object.keys": true, "Object.values": true, "Object.entries": true, "Object.assign": true,
			"Math.floor": true, "Math.ceil": true, "Math.round": true, "Math.max": true, "Math.min": true,
			"console.log": true, "console.error": true, "console.warn": true, "console.debug": true,
			"path.join": true, "path.resolve": true, "path.dirname": true, "path.basename": true,
			"map": true, "filter": true, "reduce": true, "forEach": true, "slice": true, "push": true,
			"then": true, "catch": true, "finally": true, "toString": true, "valueOf": true,
		},

		TestCallNames: []string{"it", "test", "describe", "beforeEach", "afterEach", "beforeAll", "afterAll"},
	})
}
