package cmd

import "go.uber.org/fx"

var Module = fx.Module("cli",
	fx.Provide(
		fx.Annotate(compileSafe, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(configPhpGen, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(cronjobList, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(cronjobRun, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(debugConfig, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(indexerReindex, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(patchConfigNamespace, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(serve, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(sqlRun, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(version, fx.ResultTags(`group:"commands"`)),
	),
	fx.Invoke(Run),
)
