/*
Package catalog reads step catalogs from steps files (JSON or YAML, local or over
HTTP) and validates them.

A catalog file is either a list of steps or an object with a "steps" list:

	[
	  {"id": "1", "title": "Notice", "question": "What keeps repeating?", "next": "2"},
	  {"id": "2", "title": "Name it", "question": "What would you call it?"}
	]
*/
package catalog
