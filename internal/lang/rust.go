package lang

func init() {
	Register(&Spec{
		Language:       Rust,
		FileExtensions: []string{".rs"},
		FunctionNodeTypes: []string{
			"function_item",
			"function_signature_item",
			"closure_expression",
		},
		ClassNodeTypes: []string{
			"struct_item",
			"enum_item",
			"union_item",
			"trait_item",
			"impl_item",
			"type_item",
		},
		ModuleNodeTypes: []string{"source_file", "mod_item"},
		CallNodeTypes:   []string{"call_expression", "macro_invocation"},
		ImportNodeTypes: []string{"use_declaration", "extern_crate_declaration"},

		CommentNodeTypes: []string{"line_comment", "block_comment"},
		StringNodeTypes:  []string{"string_literal", "raw_string_literal", "char_literal"},

		IdentifierNodeTypes: []string{"identifier", "field_identifier", "type_identifier"},

		ModifierNodeTypes: []string{"visibility_modifier", "mutable_specifier", "async"},

		PackageIndicators: []string{"Cargo.toml"},
		EntryPoints:       []string{"main"},

		BuiltinReceivers: map[string]bool{
			"println!": true, "format!": true, "vec!": true, "panic!": true, "assert!": true, "assert_eq!": true,
			"String.from": true, "String.new": true,
			"Vec.new": true, "Vec.with_capacity": true,
			"Option.unwrap": true, "Option.expect": true, "Option.is_some": true, "Option.is_none": true,
			"Result.unwrap": true, "Result.expect": true, "Result.is_ok": true, "Result.is_err": true,
			"iter": true, "collect": true, "clone": true, "to_string": true, "into": true, "as_ref": true,
		},

		TestCallNames: []string{"test"}, // compared with call names only; #[test] attributes are not read
	})
}
