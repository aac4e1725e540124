package entity

// BindFlags are the host's bind options for a fetch. Handlers retrieve them
// but do not act on them.
type BindFlags uint32

// BindInfo is the host's per-fetch bind record.
type BindInfo struct {
	Verb      uint32
	ExtraInfo string
	Options   uint32
}

// BindStatus classifies a progress report sent to the sink.
type BindStatus int

const (
	BindStatusMIMETypeAvailable BindStatus = 13
)

func (s BindStatus) String() string {
	switch s {
	case BindStatusMIMETypeAvailable:
		return "mimetype-available"
	default:
		return "unknown"
	}
}

// DataFlags describe a data-availability report.
type DataFlags uint32

const (
	DataFirstNotification DataFlags = 1 << iota
	DataIntermediateNotification
	DataLastNotification
	DataFullyAvailable
)

// Has reports whether all bits of f are set.
func (d DataFlags) Has(f DataFlags) bool {
	return d&f == f
}

// ParseAction selects the operation of ProtocolInfo.ParseURL.
type ParseAction int

const (
	ParseCanonicalize ParseAction = iota + 1
	ParseFriendly
	ParseSecurityURL
	ParseRootDocument
	ParseDocument
	ParseAnchor
	ParseEncode
	ParseDecode
	ParsePathFromURL
	ParseURLFromPath
	ParseMIME
	ParseServer
	ParseSchema
	ParseSite
	ParseDomain
	ParseLocation
	ParseSecurityDomain
	ParseEscape
	ParseUnescape
)

// QueryOption selects the question asked of ProtocolInfo.QueryInfo.
type QueryOption int

const (
	QueryExpirationDate QueryOption = iota + 1
	QueryTimeOfLastChange
	QueryContentEncoding
	QueryContentType
	QueryRefresh
	QueryRecombine
	QueryCanNavigate
	QueryUsesNetwork
	QueryIsCached
	QueryIsInstalledEntry
	QueryIsCachedOrMapped
	QueryUsesCache
	QueryIsSecure
	QueryIsSafe
	QueryUsesHistoryFolder
)

// Interface selects which half of a registry entry a caller wants.
type Interface int

const (
	InterfaceUnknown Interface = iota
	InterfaceProtocolInfo
	InterfaceClassFactory
)
