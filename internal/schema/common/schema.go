package common

const SchemaIdCommon = "https://github.com/Salehmangrio/postbase/schema/common.json"
