package adapter

import "github.com/polyidx/polyidx/internal/lang"

func init() {
	register(lang.TypeScript, extractors{
		defName:             jsFuncName,
		receiverInfo:        jsReceiverInfo,
		callNameAndReceiver: callFromFunctionField,
		baseClasses:         jsBaseClasses,
		importModules:       jsImportModules,
		alias:               jsAlias,
		exportNames:         jsExportNames,
	})
}
