package lang

func init() {
	Register(&Spec{
		Language:          Java,
		FileExtensions:    []string{".java"},
		FunctionNodeTypes: []string{"method_declaration", "constructor_declaration"},
		ClassNodeTypes: []string{
			"class_declaration",
			"interface_declaration",
			"enum_declaration",
			"annotation_type_declaration",
			"record_declaration",
		},
		ModuleNodeTypes: []string{"program"},
		CallNodeTypes:   []string{"method_invocation", "object_creation_expression"},
		ImportNodeTypes: []string{"import_declaration"},

		CommentNodeTypes: []string{"line_comment", "block_comment"},
		StringNodeTypes:  []string{"string_literal", "character_literal"},

		IdentifierNodeTypes: []string{"identifier", "type_identifier"},

		ModifierNodeTypes: []string{"modifiers"},

		PackageIndicators: []string{"pom.xml", "build.gradle", "build.gradle.kts"},
		EntryPoints:       []string{"main"},

		BuiltinReceivers: map[string]bool{
			"System.out.println": true, "System.out.printf": true, "System.err.println": true,
			"String.format": true, "String.valueOf": true, "String.join": true,
			"Arrays.asList": true, "Arrays.sort": true, "Collections.sort": true,
			"Objects.equals": true, "Objects.requireNonNull": true,
			"List.of": true, "Map.of": true,
			"toString": true, "equals": true, "hashCode": true, "getClass": true,
		},

		TestCallNames: []string{"Test", "BeforeEach", "AfterEach", "BeforeAll", "AfterAll"}, // JUnit annotation names
	})
}
