// Package manifest parses and validates fspec manifest files.
//
// A manifest is a YAML document listing filesystem checks:
//
//	vars:
//	  conf: /etc/myapp
//
//	checks:
//	  - name: main config present
//	    check: file-exists
//	    path: "{{conf}}/config.yaml"
//	    tags: [smoke]
//	  - name: seed pinned
//	    check: file-size-equals
//	    path: "{{conf}}/seed.bin"
//	    size: 4096
//
// Each check names an operation and a path; operations that take an
// extra argument carry it under its own key (pattern, size, target,
// other, mode, query, equals, schema). {{name}} references resolve
// from the vars block, {{$NAME}} from the process environment.
package manifest
