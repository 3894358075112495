package models

import (
	"github.com/tidwall/gjson"
)

/*
RawCollectionEntry is one untyped record from the collections payload.
Nothing about its shape is guaranteed; fields are read on demand.
*/
type RawCollectionEntry struct {
	json gjson.Result
}

func NewRawCollectionEntry(json gjson.Result) RawCollectionEntry {
	return RawCollectionEntry{json: json}
}

func ParseRawCollectionEntry(json string) RawCollectionEntry {
	return RawCollectionEntry{json: gjson.Parse(json)}
}

func (e RawCollectionEntry) Field(name string) gjson.Result {
	if !e.json.IsObject() {
		return gjson.Result{}
	}

	return e.json.Get(gjson.Escape(name))
}

func (e RawCollectionEntry) Raw() string {
	return e.json.Raw
}
