package cfgval

// Catalogue and keyNames are transcribed by hand from the u-blox
// configuration interface key table; each 32-bit identifier's high byte
// encodes a storage-size group (0x1=bool/u8-ish, 0x2=u8/enum/i8, 0x3=u16,
// 0x4=u32/i32) which this catalogue makes explicit per key rather than
// re-deriving at parse time.
const (
	KeyRateMeas Key = 0x30210001
	KeyRateNav  Key = 0x30210002

	KeyUsbInprotUbx    Key = 0x10770001
	KeyUsbInprotNmea   Key = 0x10770002
	KeyUsbInprotRtcm3x Key = 0x10770004

	KeyUsbOutprotUbx    Key = 0x10780001
	KeyUsbOutprotNmea   Key = 0x10780002
	KeyUsbOutprotRtcm3x Key = 0x10780004

	KeySpiInprotUbx    Key = 0x10790001
	KeySpiInprotNmea   Key = 0x10790002
	KeySpiInprotRtcm3x Key = 0x10790004

	KeySpiOutprotUbx    Key = 0x107A0001
	KeySpiOutprotNmea   Key = 0x107A0002
	KeySpiOutprotRtcm3x Key = 0x107A0004

	KeyUart1InprotUbx    Key = 0x10730001
	KeyUart1InprotNmea   Key = 0x10730002
	KeyUart1InprotRtcm3x Key = 0x10730004

	KeyUart1OutprotUbx    Key = 0x10740001
	KeyUart1OutprotNmea   Key = 0x10740002
	KeyUart1OutprotRtcm3x Key = 0x10740004

	KeyUart2InprotUbx    Key = 0x10750001
	KeyUart2InprotNmea   Key = 0x10750002
	KeyUart2InprotRtcm3x Key = 0x10750004

	KeyUart2OutprotUbx    Key = 0x10760001
	KeyUart2OutprotNmea   Key = 0x10760002
	KeyUart2OutprotRtcm3x Key = 0x10760004

	KeyUart1Baudrate Key = 0x40520001
	KeyUart1StopBits Key = 0x20520002
	KeyUart1Databits Key = 0x20520003
	KeyUart1Parity   Key = 0x20520004
	KeyUart1Enabled  Key = 0x20520005

	KeyUart2Baudrate Key = 0x40530001
	KeyUart2StopBits Key = 0x20530002
	KeyUart2Databits Key = 0x20530003
	KeyUart2Parity   Key = 0x20530004
	KeyUart2Enabled  Key = 0x20530005
	KeyUart2Remap    Key = 0x20530006

	KeyInfmsgUbxUart1  Key = 0x20920002
	KeyInfmsgUbxUart2  Key = 0x20920003
	KeyInfmsgUbxUsb    Key = 0x20920004
	KeyInfmsgNmeaUart1 Key = 0x20920007
	KeyInfmsgNmeaUart2 Key = 0x20920008
	KeyInfmsgNmeaUsb   Key = 0x20920009

	KeyMsgoutRtcm3xType1005Usb   Key = 0x209102C0
	KeyMsgoutRtcm3xType1074Usb   Key = 0x20910361
	KeyMsgoutRtcm3xType1077Usb   Key = 0x209102CF
	KeyMsgoutRtcm3xType1084Usb   Key = 0x20910366
	KeyMsgoutRtcm3xType1087Usb   Key = 0x209102D4
	KeyMsgoutRtcm3xType1094Usb   Key = 0x2091036B
	KeyMsgoutRtcm3xType1097Usb   Key = 0x2091031B
	KeyMsgoutRtcm3xType1124Usb   Key = 0x20910370
	KeyMsgoutRtcm3xType1127Usb   Key = 0x209102D9
	KeyMsgoutRtcm3xType1230Usb   Key = 0x20910306
	KeyMsgoutRtcm3xType4072_0Usb Key = 0x20910301
	KeyMsgoutRtcm3xType4072_1Usb Key = 0x20910384

	KeyMsgoutUbxNavPvtUsb       Key = 0x20910009
	KeyMsgoutUbxNavPosecefUsb   Key = 0x20910027
	KeyMsgoutUbxNavPosllhUsb    Key = 0x2091002C
	KeyMsgoutUbxNavStatusUsb    Key = 0x2091001D
	KeyMsgoutUbxNavDopUsb       Key = 0x2091003B
	KeyMsgoutUbxNavVelecefUsb   Key = 0x20910040
	KeyMsgoutUbxNavVelnedUsb    Key = 0x20910045
	KeyMsgoutUbxNavTimegpsUsb   Key = 0x2091004A
	KeyMsgoutUbxNavTimeutcUsb   Key = 0x2091005E
	KeyMsgoutUbxNavSatUsb       Key = 0x20910018
	KeyMsgoutUbxNavSigUsb       Key = 0x20910348
	KeyMsgoutUbxNavSvinUsb      Key = 0x2091008B
	KeyMsgoutUbxNavRelPosNedUsb Key = 0x20910090
	KeyMsgoutUbxNavEoeUsb       Key = 0x20910162
	KeyMsgoutUbxRxmRtcmUsb      Key = 0x2091026B
	KeyMsgoutUbxRxmRawxUsb      Key = 0x209102A7
	KeyMsgoutUbxRxmSfrbxUsb     Key = 0x20910234
	KeyMsgoutUbxMonHwUsb        Key = 0x209101B7
	KeyMsgoutUbxMonRfUsb        Key = 0x2091035C

	KeyOdoUseOdo       Key = 0x10220001
	KeyOdoUseCog       Key = 0x10220002
	KeyOdoOutlpvel     Key = 0x10220003
	KeyOdoOutlpcog     Key = 0x10220004
	KeyOdoProfile      Key = 0x20220005
	KeyOdoCogmaxspeed  Key = 0x20220021
	KeyOdoCogmaxposacc Key = 0x20220022
	KeyOdoVellpgain    Key = 0x20220031
	KeyOdoCoglpgain    Key = 0x20220032

	KeyNavhpgDgnssmode Key = 0x20140011

	KeyTmodeMode         Key = 0x20030001
	KeyTmodePosType      Key = 0x20030002
	KeyTmodeEcefX        Key = 0x40030003
	KeyTmodeEcefY        Key = 0x40030004
	KeyTmodeEcefZ        Key = 0x40030005
	KeyTmodeEcefXHp      Key = 0x20030006
	KeyTmodeEcefYHp      Key = 0x20030007
	KeyTmodeEcefZHp      Key = 0x20030008
	KeyTmodeFixedPosAcc  Key = 0x4003000F
	KeyTmodeSvinMinDur   Key = 0x40030010
	KeyTmodeSvinAccLimit Key = 0x40030011

	KeySignalGpsEna     Key = 0x1031001F
	KeySignalGpsL1caEna Key = 0x10310001
	KeySignalGpsL2cEna  Key = 0x10310003

	KeySignalGalEna    Key = 0x10310021
	KeySignalGalE1Ena  Key = 0x10310007
	KeySignalGalE5bEna Key = 0x1031000A

	KeySignalBdsEna   Key = 0x10310022
	KeySignalBdsB1Ena Key = 0x1031000D
	KeySignalBdsB2Ena Key = 0x1031000E

	KeySignalQzssEna     Key = 0x10310024
	KeySignalQzssL1caEna Key = 0x10310012
	KeySignalQzssL2cEna  Key = 0x10310015

	KeySignalGloEna   Key = 0x10310025
	KeySignalGloL1Ena Key = 0x10310018
	KeySignalGloL2Ena Key = 0x1031001A
)

// Enumerated ("named") scalar values for the TypeEnum8 keys above.
const (
	StopBitsHalf    uint8 = 0
	StopBitsOne     uint8 = 1
	StopBitsOneHalf uint8 = 2
	StopBitsTwo     uint8 = 3

	DatabitsEight uint8 = 0
	DatabitsSeven uint8 = 1

	ParityNone uint8 = 0
	ParityOdd  uint8 = 1
	ParityEven uint8 = 2

	OdoProfileRun    uint8 = 0
	OdoProfileCycl   uint8 = 1
	OdoProfileSwim   uint8 = 2
	OdoProfileCar    uint8 = 3
	OdoProfileCustom uint8 = 4

	RtkModeFloat uint8 = 2
	RtkModeFixed uint8 = 3

	TmodeDisabled uint8 = 0
	TmodeSurveyIn uint8 = 1
	TmodeFixed    uint8 = 2

	PosTypeEcef uint8 = 0
	PosTypeLlh  uint8 = 1
)

// Catalogue maps every known Key to its wire Type.
var Catalogue = map[Key]Type{
	KeyRateMeas: TypeU16,
	KeyRateNav:  TypeU16,

	KeyUsbInprotUbx: TypeBool, KeyUsbInprotNmea: TypeBool, KeyUsbInprotRtcm3x: TypeBool,
	KeyUsbOutprotUbx: TypeBool, KeyUsbOutprotNmea: TypeBool, KeyUsbOutprotRtcm3x: TypeBool,
	KeySpiInprotUbx: TypeBool, KeySpiInprotNmea: TypeBool, KeySpiInprotRtcm3x: TypeBool,
	KeySpiOutprotUbx: TypeBool, KeySpiOutprotNmea: TypeBool, KeySpiOutprotRtcm3x: TypeBool,
	KeyUart1InprotUbx: TypeBool, KeyUart1InprotNmea: TypeBool, KeyUart1InprotRtcm3x: TypeBool,
	KeyUart1OutprotUbx: TypeBool, KeyUart1OutprotNmea: TypeBool, KeyUart1OutprotRtcm3x: TypeBool,
	KeyUart2InprotUbx: TypeBool, KeyUart2InprotNmea: TypeBool, KeyUart2InprotRtcm3x: TypeBool,
	KeyUart2OutprotUbx: TypeBool, KeyUart2OutprotNmea: TypeBool, KeyUart2OutprotRtcm3x: TypeBool,

	KeyUart1Baudrate: TypeU32, KeyUart1StopBits: TypeEnum8, KeyUart1Databits: TypeEnum8,
	KeyUart1Parity: TypeEnum8, KeyUart1Enabled: TypeBool,
	KeyUart2Baudrate: TypeU32, KeyUart2StopBits: TypeEnum8, KeyUart2Databits: TypeEnum8,
	KeyUart2Parity: TypeEnum8, KeyUart2Enabled: TypeBool, KeyUart2Remap: TypeBool,

	KeyInfmsgUbxUart1: TypeU8, KeyInfmsgUbxUart2: TypeU8, KeyInfmsgUbxUsb: TypeU8,
	KeyInfmsgNmeaUart1: TypeU8, KeyInfmsgNmeaUart2: TypeU8, KeyInfmsgNmeaUsb: TypeU8,

	KeyMsgoutRtcm3xType1005Usb: TypeU8, KeyMsgoutRtcm3xType1074Usb: TypeU8,
	KeyMsgoutRtcm3xType1077Usb: TypeU8, KeyMsgoutRtcm3xType1084Usb: TypeU8,
	KeyMsgoutRtcm3xType1087Usb: TypeU8, KeyMsgoutRtcm3xType1094Usb: TypeU8,
	KeyMsgoutRtcm3xType1097Usb: TypeU8, KeyMsgoutRtcm3xType1124Usb: TypeU8,
	KeyMsgoutRtcm3xType1127Usb: TypeU8, KeyMsgoutRtcm3xType1230Usb: TypeU8,
	KeyMsgoutRtcm3xType4072_0Usb: TypeU8, KeyMsgoutRtcm3xType4072_1Usb: TypeU8,

	KeyMsgoutUbxNavPvtUsb: TypeU8, KeyMsgoutUbxNavPosecefUsb: TypeU8,
	KeyMsgoutUbxNavPosllhUsb: TypeU8, KeyMsgoutUbxNavStatusUsb: TypeU8,
	KeyMsgoutUbxNavDopUsb: TypeU8, KeyMsgoutUbxNavVelecefUsb: TypeU8,
	KeyMsgoutUbxNavVelnedUsb: TypeU8, KeyMsgoutUbxNavTimegpsUsb: TypeU8,
	KeyMsgoutUbxNavTimeutcUsb: TypeU8, KeyMsgoutUbxNavSatUsb: TypeU8,
	KeyMsgoutUbxNavSigUsb: TypeU8, KeyMsgoutUbxNavSvinUsb: TypeU8,
	KeyMsgoutUbxNavRelPosNedUsb: TypeU8, KeyMsgoutUbxNavEoeUsb: TypeU8,
	KeyMsgoutUbxRxmRtcmUsb: TypeU8, KeyMsgoutUbxRxmRawxUsb: TypeU8,
	KeyMsgoutUbxRxmSfrbxUsb: TypeU8, KeyMsgoutUbxMonHwUsb: TypeU8,
	KeyMsgoutUbxMonRfUsb: TypeU8,

	KeyOdoUseOdo: TypeBool, KeyOdoUseCog: TypeBool, KeyOdoOutlpvel: TypeBool, KeyOdoOutlpcog: TypeBool,
	KeyOdoProfile: TypeEnum8, KeyOdoCogmaxspeed: TypeU8, KeyOdoCogmaxposacc: TypeU8,
	KeyOdoVellpgain: TypeU8, KeyOdoCoglpgain: TypeU8,

	KeyNavhpgDgnssmode: TypeEnum8,

	KeyTmodeMode: TypeEnum8, KeyTmodePosType: TypeEnum8,
	KeyTmodeEcefX: TypeI32, KeyTmodeEcefY: TypeI32, KeyTmodeEcefZ: TypeI32,
	KeyTmodeEcefXHp: TypeI8, KeyTmodeEcefYHp: TypeI8, KeyTmodeEcefZHp: TypeI8,
	KeyTmodeFixedPosAcc: TypeU32, KeyTmodeSvinMinDur: TypeU32, KeyTmodeSvinAccLimit: TypeU32,

	KeySignalGpsEna: TypeBool, KeySignalGpsL1caEna: TypeBool, KeySignalGpsL2cEna: TypeBool,
	KeySignalGalEna: TypeBool, KeySignalGalE1Ena: TypeBool, KeySignalGalE5bEna: TypeBool,
	KeySignalBdsEna: TypeBool, KeySignalBdsB1Ena: TypeBool, KeySignalBdsB2Ena: TypeBool,
	KeySignalQzssEna: TypeBool, KeySignalQzssL1caEna: TypeBool, KeySignalQzssL2cEna: TypeBool,
	KeySignalGloEna: TypeBool, KeySignalGloL1Ena: TypeBool, KeySignalGloL2Ena: TypeBool,
}

// keyNames is the kebab-case name used by the JSON configuration file
// (internal/cfgfile) and CLI pretty-printers — kept separate from the Key
// constants themselves so the catalogue above stays terse.
var keyNames = map[Key]string{
	KeyRateMeas: "rate-meas", KeyRateNav: "rate-nav",
	KeyUsbInprotUbx: "usb-inprot-ubx", KeyUsbInprotNmea: "usb-inprot-nmea", KeyUsbInprotRtcm3x: "usb-inprot-rtcm3x",
	KeyUsbOutprotUbx: "usb-outprot-ubx", KeyUsbOutprotNmea: "usb-outprot-nmea", KeyUsbOutprotRtcm3x: "usb-outprot-rtcm3x",
	KeyUart1Baudrate: "uart1-baudrate", KeyUart1StopBits: "uart1-stopbits", KeyUart1Databits: "uart1-databits",
	KeyUart1Parity: "uart1-parity", KeyUart1Enabled: "uart1-enabled",
	KeyUart2Baudrate: "uart2-baudrate", KeyUart2StopBits: "uart2-stopbits", KeyUart2Databits: "uart2-databits",
	KeyUart2Parity: "uart2-parity", KeyUart2Enabled: "uart2-enabled", KeyUart2Remap: "uart2-remap",
	KeyMsgoutUbxNavPvtUsb: "msgout-ubx-nav-pvt-usb", KeyMsgoutRtcm3xType1005Usb: "msgout-rtcm3x-1005-usb",
	KeyMsgoutRtcm3xType1077Usb: "msgout-rtcm3x-1077-usb", KeyMsgoutRtcm3xType1087Usb: "msgout-rtcm3x-1087-usb",
	KeyMsgoutRtcm3xType1097Usb: "msgout-rtcm3x-1097-usb", KeyMsgoutRtcm3xType1230Usb: "msgout-rtcm3x-1230-usb",
	KeyTmodeMode: "tmode-mode", KeyTmodePosType: "tmode-pos-type",
	KeyTmodeEcefX: "tmode-ecef-x", KeyTmodeEcefY: "tmode-ecef-y", KeyTmodeEcefZ: "tmode-ecef-z",
	KeyTmodeFixedPosAcc: "tmode-fixed-pos-acc", KeyTmodeSvinMinDur: "tmode-svin-min-dur", KeyTmodeSvinAccLimit: "tmode-svin-acc-limit",
	KeyNavhpgDgnssmode: "navhpg-dgnssmode",
	KeySignalGpsEna: "signal-gps-ena", KeySignalGalEna: "signal-gal-ena", KeySignalBdsEna: "signal-bds-ena",
	KeySignalQzssEna: "signal-qzss-ena", KeySignalGloEna: "signal-glo-ena",
	KeyOdoUseOdo: "odo-use-odo", KeyOdoProfile: "odo-profile",
}

// ByName resolves a kebab-case configuration-file key name to its Key and
// catalogue Type. Used by internal/cfgfile to reject unknown keys wholesale.
func ByName(name string) (Key, Type, bool) {
	for k, n := range keyNames {
		if n == name {
			t := Catalogue[k]
			return k, t, true
		}
	}
	return 0, 0, false
}
