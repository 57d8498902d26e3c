package app

import (
	"github.com/vk/flowsheetgo/internal/registry"
	"github.com/vk/flowsheetgo/modules/feed"
	"github.com/vk/flowsheetgo/modules/heater"
	"github.com/vk/flowsheetgo/modules/heatexchanger"
	"github.com/vk/flowsheetgo/modules/mixer"
	"github.com/vk/flowsheetgo/modules/pressurechanger"
	"github.com/vk/flowsheetgo/modules/product"
	"github.com/vk/flowsheetgo/modules/separator"
)

// coreModules is the definitive list of all unit modules that are compiled
// into the flowsheetgo binary.
var coreModules = []registry.Module{
	&feed.Module{},
	&product.Module{},
	&pressurechanger.Module{},
	&heater.Module{},
	&mixer.Module{},
	&separator.Module{},
	&heatexchanger.Module{},
}
