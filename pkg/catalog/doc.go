// Package catalog loads the option lists backing choice fields. Catalogs are
// declared in JSON or YAML documents of the form
//
//	catalogs:
//	  courses:
//	    label: Desired Course
//	    allowOther: true
//	    options: [Computer Science, Law]
//
// and collected into a Store. The bundled defaults are available through
// EmbeddedFS.
package catalog
