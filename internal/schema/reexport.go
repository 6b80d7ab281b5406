package schema

import (
	"github.com/Salehmangrio/postbase/internal/schema/common"
	"github.com/Salehmangrio/postbase/internal/schema/config"
)

const SchemaIdCommon = common.SchemaIdCommon
const SchemaIdConfig = config.SchemaIdConfig

var allSchemas = []string{
	SchemaIdCommon,
	SchemaIdConfig,
}
