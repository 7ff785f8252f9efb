package mocks

//go:generate mockery --name EventStore --srcpkg github.com/aevon-lab/ledgerbook/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name Hasher --srcpkg github.com/aevon-lab/ledgerbook/internal/credential --output ./credential --outpkg credentialmocks --with-expecter
