package config

import "github.com/Salehmangrio/postbase/internal/schema/common"

type (
	HumanDuration     = common.HumanDuration
	HumanByteSize     = common.HumanByteSize
	IntegerValue      = common.IntegerValue
	StringValue       = common.StringValue
	StringValueDirect = common.StringValueDirect
	StringValueEnvVar = common.StringValueEnvVar
	StringValueFile   = common.StringValueFile
	ValidationContext = common.ValidationContext
)

var (
	KindToString               = common.KindToString
	NewStringValueDirect       = common.NewStringValueDirect
	NewStringValueDirectInline = common.NewStringValueDirectInline
	NewIntegerValue            = common.NewIntegerValue
	NewHumanByteSize           = common.NewHumanByteSize
	HumanDurationFor           = common.HumanDurationFor
)
