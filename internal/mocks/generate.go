package mocks

//go:generate mockery --name DefinitionStore --srcpkg github.com/aevon-lab/insight/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name InstanceStore --srcpkg github.com/aevon-lab/insight/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name ReportRepository --srcpkg github.com/aevon-lab/insight/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
