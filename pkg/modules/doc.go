// Package modules loads deferred view modules for the router.
//
// A Registry maps module ids to compilers. On first navigation to a
// deferred route the router asks the Registry for the module; the Registry
// fetches the module source from a Source (an fs.FS or an S3 bucket) and
// compiles it into a router.View. Caching of the compiled view is the
// router's job; the Registry fetches on every call.
//
//	reg := modules.NewRegistry(modules.NewFSSource(views.Modules(), views.ModuleExt))
//	reg.Register("dashboard", modules.TemplateCompiler(nil))
//	routes, err := app.Routes(links, reg)
package modules
