// Package epanet is a thin object-oriented API over the EPANET and
// EPANET-MSX native toolkits, dispatched through the ffi compatibility shim.
// Each Project owns one native simulation session; multiple projects may
// coexist when the library supports the handle-based symbol family.
package epanet

// Limits on the character arrays used for ID names and message text.
const (
	MaxID  = 31 + 1
	MaxMsg = 255
)

// NodeProperty selects a node value for Project.NodeValue / SetNodeValue.
type NodeProperty int32

const (
	Elevation     NodeProperty = 0
	BaseDemand    NodeProperty = 1
	Pattern       NodeProperty = 2
	Emitter       NodeProperty = 3
	InitQual      NodeProperty = 4
	SourceQual    NodeProperty = 5
	SourcePat     NodeProperty = 6
	SourceType    NodeProperty = 7
	TankLevel     NodeProperty = 8
	Demand        NodeProperty = 9
	Head          NodeProperty = 10
	Pressure      NodeProperty = 11
	Quality       NodeProperty = 12
	SourceMass    NodeProperty = 13
	InitVolume    NodeProperty = 14
	MixModel      NodeProperty = 15
	MixZoneVol    NodeProperty = 16
	TankDiam      NodeProperty = 17
	MinVolume     NodeProperty = 18
	VolCurve      NodeProperty = 19
	MinLevel      NodeProperty = 20
	MaxLevel      NodeProperty = 21
	MixFraction   NodeProperty = 22
	TankKBulk     NodeProperty = 23
	TankVolume    NodeProperty = 24
	MaxVolume     NodeProperty = 25
	CanOverflow   NodeProperty = 26
	DemandDeficit NodeProperty = 27
)

// LinkProperty selects a link value for Project.LinkValue / SetLinkValue.
type LinkProperty int32

const (
	Diameter    LinkProperty = 0
	Length      LinkProperty = 1
	Roughness   LinkProperty = 2
	MinorLoss   LinkProperty = 3
	InitStatus  LinkProperty = 4
	InitSetting LinkProperty = 5
	KBulk       LinkProperty = 6
	KWall       LinkProperty = 7
	Flow        LinkProperty = 8
	Velocity    LinkProperty = 9
	Headloss    LinkProperty = 10
	Status      LinkProperty = 11
	Setting     LinkProperty = 12
	Energy      LinkProperty = 13
	LinkQual    LinkProperty = 14
	LinkPattern LinkProperty = 15
	PumpState   LinkProperty = 16
	PumpEffic   LinkProperty = 17
	PumpPower   LinkProperty = 18
	PumpHCurve  LinkProperty = 19
	PumpECurve  LinkProperty = 20
	PumpECost   LinkProperty = 21
	PumpEPat    LinkProperty = 22
)

// TimeParameter selects a time setting for Project.TimeParameter.
type TimeParameter int32

const (
	Duration      TimeParameter = 0
	HydStep       TimeParameter = 1
	QualStep      TimeParameter = 2
	PatternStep   TimeParameter = 3
	PatternStart  TimeParameter = 4
	ReportStep    TimeParameter = 5
	ReportStart   TimeParameter = 6
	RuleStep      TimeParameter = 7
	Statistic     TimeParameter = 8
	Periods       TimeParameter = 9
	StartTime     TimeParameter = 10
	HTime         TimeParameter = 11
	QTime         TimeParameter = 12
	HaltFlag      TimeParameter = 13
	NextEvent     TimeParameter = 14
	NextEventTank TimeParameter = 15
)

// CountType selects a component count for Project.Count.
type CountType int32

const (
	NodeCount    CountType = 0
	TankCount    CountType = 1
	LinkCount    CountType = 2
	PatCount     CountType = 3
	CurveCount   CountType = 4
	ControlCount CountType = 5
	RuleCount    CountType = 6
)

// NodeType classifies a node.
type NodeType int32

const (
	Junction  NodeType = 0
	Reservoir NodeType = 1
	Tank      NodeType = 2
)

// LinkType classifies a link.
type LinkType int32

const (
	CVPipe LinkType = 0
	Pipe   LinkType = 1
	Pump   LinkType = 2
	PRV    LinkType = 3
	PSV    LinkType = 4
	PBV    LinkType = 5
	FCV    LinkType = 6
	TCV    LinkType = 7
	GPV    LinkType = 8
	PCV    LinkType = 9
)

// QualityType selects the water-quality analysis mode.
type QualityType int32

const (
	QualNone  QualityType = 0
	QualChem  QualityType = 1
	QualAge   QualityType = 2
	QualTrace QualityType = 3
)

// InitFlag controls whether stepped runs save results and re-initialize
// flows.
type InitFlag int32

const (
	NoSave      InitFlag = 0
	Save        InitFlag = 1
	InitFlow    InitFlag = 10
	SaveAndInit InitFlag = 11
)

// FlowUnits identifies the project's flow unit system.
type FlowUnits int32

const (
	CFS  FlowUnits = 0
	GPM  FlowUnits = 1
	MGD  FlowUnits = 2
	IMGD FlowUnits = 3
	AFD  FlowUnits = 4
	LPS  FlowUnits = 5
	LPM  FlowUnits = 6
	MLD  FlowUnits = 7
	CMH  FlowUnits = 8
	CMD  FlowUnits = 9
	CMS  FlowUnits = 10
)

// MSXObject selects an EPANET-MSX object family.
type MSXObject int32

const (
	MSXNode      MSXObject = 0
	MSXLink      MSXObject = 1
	MSXTank      MSXObject = 2
	MSXSpecies   MSXObject = 3
	MSXTerm      MSXObject = 4
	MSXParameter MSXObject = 5
	MSXConstant  MSXObject = 6
	MSXPattern   MSXObject = 7
)

// MSX species kinds.
const (
	MSXBulk int32 = 0
	MSXWall int32 = 1
)
