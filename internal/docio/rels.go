package docio

import (
	"encoding/xml"
	"fmt"
)

// ToleratedTargets are relationship targets known to appear in documents
// whose media table was damaged by an earlier editor. Relationships pointing
// at them are skipped and the referencing image is treated as absent.
var ToleratedTargets = map[string]bool{
	"NULL":    true,
	"../NULL": true,
}

type relationships struct {
	XMLName xml.Name       `xml:"Relationships"`
	Rels    []relationship `xml:"Relationship"`
}

type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// corruptRelIDs parses the document relationship part and returns the IDs of
// relationships whose target is tolerated as corrupt. A nil rels part yields
// no corrupt IDs.
func corruptRelIDs(relsXML []byte, tolerated map[string]bool) (map[string]bool, error) {
	if len(relsXML) == 0 {
		return nil, nil
	}
	var rels relationships
	if err := xml.Unmarshal(relsXML, &rels); err != nil {
		return nil, fmt.Errorf("parse relationships: %w", err)
	}
	var ids map[string]bool
	for _, r := range rels.Rels {
		if tolerated[r.Target] {
			if ids == nil {
				ids = make(map[string]bool)
			}
			ids[r.ID] = true
		}
	}
	return ids, nil
}
