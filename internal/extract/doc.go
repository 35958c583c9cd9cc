// Package extract pulls the structured observation payload out of free-form
// model output. Responses may wrap the object in prose or Markdown code
// fences; Parse scans for balanced {...} spans and returns the first one that
// decodes as a JSON object.
package extract
