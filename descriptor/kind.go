package descriptor

// Kind classifies a node once, when the document is parsed, so binders
// switch on a closed set of variants instead of comparing element names.
type Kind int

const (
	// KindForeign marks elements outside MappingNamespace.
	KindForeign Kind = iota
	// KindOther marks mapping-namespace elements no binder recognizes.
	KindOther
	KindMapping
	KindClass
	KindID
	KindCompositeID
	KindVersion
	KindTimestamp
	KindDiscriminator
	KindCache
	KindGenerator
	KindParam
	KindColumn
	KindType
	KindProperty
	KindKeyProperty
	KindComponent
	KindParent
)

var kindNames = map[string]Kind{
	"mapping":       KindMapping,
	"class":         KindClass,
	"id":            KindID,
	"composite-id":  KindCompositeID,
	"version":       KindVersion,
	"timestamp":     KindTimestamp,
	"discriminator": KindDiscriminator,
	"cache":         KindCache,
	"jcs-cache":     KindCache,
	"generator":     KindGenerator,
	"param":         KindParam,
	"column":        KindColumn,
	"type":          KindType,
	"property":      KindProperty,
	"key-property":  KindKeyProperty,
	"component":     KindComponent,
	"parent":        KindParent,
}

// Classify returns the kind of an element given its namespace and local name.
func Classify(namespace, local string) Kind {
	if namespace != MappingNamespace {
		return KindForeign
	}
	if k, ok := kindNames[local]; ok {
		return k
	}
	return KindOther
}

func (k Kind) String() string {
	switch k {
	case KindForeign:
		return "foreign"
	case KindOther:
		return "other"
	}
	for name, kind := range kindNames {
		// jcs-cache is an alias; report the canonical spelling.
		if kind == k && name != "jcs-cache" {
			return name
		}
	}
	return "unknown"
}
