package lang

func init() {
	Register(&Spec{
		Language:       PHP,
		FileExtensions: []string{".php"},
		FunctionNodeTypes: []string{
			"anonymous_function",
			"function_definition",
			"arrow_function",
			"method_declaration",
		},
		ClassNodeTypes: []string{
			"trait_declaration",
			"enum_declaration",
			"interface_declaration",
			"class_declaration",
		},
		ModuleNodeTypes: []string{"program"},
		CallNodeTypes: []string{
			"member_call_expression",
			"scoped_call_expression",
			"function_call_expression",
			"nullsafe_member_call_expression",
		},
		ImportNodeTypes: []string{"namespace_use_declaration", "require_expression", "require_once_expression", "include_expression"},

		CommentNodeTypes: []string{"comment"},
		StringNodeTypes:  []string{"string", "encapsed_string"},

		IdentifierNodeTypes: []string{"name", "variable_name"},

		ModifierNodeTypes: []string{"visibility_modifier", "static_modifier", "abstract_modifier", "final_modifier"},

		PackageIndicators: []string{"composer.json"},
		EntryPoints:       []string{"__construct", "__destruct", "__call", "__get", "__set", "__toString"},

		BuiltinReceivers: map[string]bool{
			"json_encode": true, "json_decode": true,
			"array_map": true, "array_filter": true, "array_reduce": true, "array_merge": true,
			"str_replace": true, "implode": true, "explode": true, "trim": true,
			"getenv": true, "print_r": true, "var_dump": true, "count": true,
		},

		TestCallNames: []string{"test"},
	})
}
