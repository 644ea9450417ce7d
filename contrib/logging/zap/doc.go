// Package zap adapts a *zap.SugaredLogger to types.Logger.
//
// types.Logger's method set is documented as zap.SugaredLogger-compatible;
// this adapter exists because SugaredLogger's Debugw/Infow/Warnw/Errorw
// names don't match Debug/Info/Warn/Error exactly.
//
//	logger, _ := zap.NewProduction()
//	fetcher := metadata.NewFetcher(factory, metadata.WithLogger(zapadapter.New(logger.Sugar())))
package zap
